package asciicanvas_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/termaid/termaid/tmrenderers/tmascii/asciicanvas"
)

func TestWriteAndString(t *testing.T) {
	c := asciicanvas.New(10, 3)
	c.Write(2, 1, "hello")
	assert.Equal(t, "\n  hello\n", c.String())
}

func TestSetOutOfBoundsIgnored(t *testing.T) {
	c := asciicanvas.New(3, 2)
	c.Set(-1, 0, 'X')
	c.Set(3, 0, 'X')
	c.Set(0, 2, 'X')
	assert.Equal(t, "\n", c.String())
}

func TestTrimsTrailingSpaces(t *testing.T) {
	c := asciicanvas.New(10, 2)
	c.Write(0, 0, "hi")
	c.Set(9, 1, 'x')
	assert.Equal(t, "hi\n         x", c.String())
}

func TestWideRuneOffsets(t *testing.T) {
	c := asciicanvas.New(10, 1)
	c.Write(0, 0, "テス")
	// テ and ス each cover two columns, so the next free column is 4.
	c.Set(4, 0, 'C')
	assert.Equal(t, "テスC", c.String())
}

func TestOverwritingContinuationBlanksBase(t *testing.T) {
	c := asciicanvas.New(10, 1)
	c.Write(0, 0, "テスト")
	// Column 3 is the continuation half of ス; writing there must blank ス
	// itself rather than leave half a glyph.
	c.Set(3, 0, '│')
	assert.Equal(t, "テ │ト", c.String())
}

func TestMergeCrossingLines(t *testing.T) {
	c := asciicanvas.New(3, 3)
	c.Merge(1, 1, '─')
	c.Merge(1, 1, '│')
	assert.Equal(t, '┼', c.Get(1, 1))
}

func TestMergeCornerWithLine(t *testing.T) {
	c := asciicanvas.New(3, 3)
	c.Merge(0, 0, '┐')
	c.Merge(0, 0, '└')
	assert.Equal(t, '┼', c.Get(0, 0))

	c.Set(1, 1, '─')
	c.Merge(1, 1, '┌')
	assert.Equal(t, '┬', c.Get(1, 1))
}

// Merging is order-independent over the box-drawing set.
func TestMergeCommutes(t *testing.T) {
	glyphs := []rune{'─', '│', '┌', '┐', '└', '┘', '┬', '┴', '├', '┤', '┼'}
	for _, a := range glyphs {
		for _, b := range glyphs {
			c1 := asciicanvas.New(1, 1)
			c1.Merge(0, 0, a)
			c1.Merge(0, 0, b)
			c2 := asciicanvas.New(1, 1)
			c2.Merge(0, 0, b)
			c2.Merge(0, 0, a)
			assert.Equal(t, c1.Get(0, 0), c2.Get(0, 0), "merge %c with %c", a, b)
		}
	}
}

func TestMergeOverwritesNonBoxGlyph(t *testing.T) {
	c := asciicanvas.New(2, 1)
	c.Set(0, 0, 'A')
	c.Merge(0, 0, '│')
	assert.Equal(t, '│', c.Get(0, 0))
}
