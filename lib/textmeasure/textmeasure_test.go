package textmeasure_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termaid/termaid/lib/textmeasure"
)

func TestStringWidth(t *testing.T) {
	assert.Equal(t, 5, textmeasure.StringWidth("hello"))
	assert.Equal(t, 0, textmeasure.StringWidth(""))
	// East-Asian wide characters occupy two columns each.
	assert.Equal(t, 6, textmeasure.StringWidth("テスト"))
	assert.Equal(t, 7, textmeasure.StringWidth("aテスb"))
}

func TestSplitLines(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want []string
	}{
		{"hello", []string{"hello"}},
		{"Hello<br/>World", []string{"Hello", "World"}},
		{"A<br>B", []string{"A", "B"}},
		{"A<br />B", []string{"A", "B"}},
		{"A<BR/>B", []string{"A", "B"}},
		{"A<Br>B", []string{"A", "B"}},
		{"A<br/>B<br/>C", []string{"A", "B", "C"}},
		{"", []string{""}},
		{"<br/>", []string{"", ""}},
	} {
		assert.Equal(t, tc.want, textmeasure.SplitLines(tc.in), "input %q", tc.in)
	}
}

func TestMultilineWidth(t *testing.T) {
	assert.Equal(t, 5, textmeasure.MultilineWidth("hello"))
	assert.Equal(t, 5, textmeasure.MultilineWidth("Hi<br/>World"))
	assert.Equal(t, 0, textmeasure.MultilineWidth(""))
}

func TestLineCount(t *testing.T) {
	assert.Equal(t, 1, textmeasure.LineCount("hello"))
	assert.Equal(t, 3, textmeasure.LineCount("A<br/>B<br/>C"))
}

func TestTruncateOne(t *testing.T) {
	s, ok := textmeasure.TruncateOne("Alice")
	assert.True(t, ok)
	assert.Equal(t, "Alic…", s)

	// Repeated truncation strips the previous ellipsis first.
	s, ok = textmeasure.TruncateOne(s)
	assert.True(t, ok)
	assert.Equal(t, "Ali…", s)

	// Floor: a name is never shortened below 2 display columns.
	s = "Alice"
	for {
		next, ok := textmeasure.TruncateOne(s)
		if !ok {
			break
		}
		s = next
	}
	assert.Equal(t, "A…", s)

	_, ok = textmeasure.TruncateOne("A")
	assert.False(t, ok)
}
