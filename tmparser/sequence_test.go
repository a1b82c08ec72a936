package tmparser_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/termaid/termaid/tmast"
	"github.com/termaid/termaid/tmparser"
)

func TestSequenceMinimal(t *testing.T) {
	d, err := tmparser.ParseSequence("sequenceDiagram\n    Alice->>Bob: Hello\n    Bob-->>Alice: Hi!\n")
	require.NoError(t, err)
	require.Len(t, d.Statements, 2)

	m, ok := d.Statements[0].(tmast.Message)
	require.True(t, ok)
	assert.Equal(t, "Alice", m.From)
	assert.Equal(t, "Bob", m.To)
	assert.Equal(t, tmast.LineSolid, m.Arrow.Line)
	assert.Equal(t, tmast.HeadArrow, m.Arrow.Head)
	assert.Equal(t, "Hello", m.Text)

	m2, ok := d.Statements[1].(tmast.Message)
	require.True(t, ok)
	assert.Equal(t, tmast.LineDotted, m2.Arrow.Line)
}

func TestSequenceArrowVariants(t *testing.T) {
	tests := []struct {
		arrow string
		line  tmast.LineStyle
		head  tmast.ArrowHead
	}{
		{"->", tmast.LineSolid, tmast.HeadNone},
		{"->>", tmast.LineSolid, tmast.HeadArrow},
		{"-->", tmast.LineDotted, tmast.HeadNone},
		{"-->>", tmast.LineDotted, tmast.HeadArrow},
		{"-x", tmast.LineSolid, tmast.HeadCross},
		{"--x", tmast.LineDotted, tmast.HeadCross},
		{"-)", tmast.LineSolid, tmast.HeadOpen},
		{"--)", tmast.LineDotted, tmast.HeadOpen},
	}
	for _, tc := range tests {
		t.Run(tc.arrow, func(t *testing.T) {
			d, err := tmparser.ParseSequence("sequenceDiagram\nAlice" + tc.arrow + "Bob: Hello\n")
			require.NoError(t, err)
			m := d.Statements[0].(tmast.Message)
			assert.Equal(t, tc.line, m.Arrow.Line)
			assert.Equal(t, tc.head, m.Arrow.Head)
		})
	}
}

func TestSequenceParticipants(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    participant A as Alice
    participant B
    actor C
    A->>B: Hello
`)
	require.NoError(t, err)
	require.Len(t, d.Statements, 4)
	assert.Equal(t, tmast.ParticipantDecl{ID: "A", Alias: "Alice"}, d.Statements[0])
	assert.Equal(t, tmast.ParticipantDecl{ID: "B"}, d.Statements[1])
	assert.Equal(t, tmast.ParticipantDecl{ID: "C"}, d.Statements[2])
}

func TestSequenceCreateIsDecl(t *testing.T) {
	d, err := tmparser.ParseSequence("sequenceDiagram\ncreate participant D as Database\n")
	require.NoError(t, err)
	assert.Equal(t, tmast.ParticipantDecl{ID: "D", Alias: "Database"}, d.Statements[0])
}

func TestSequenceCommentsAndBlankLines(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    %% greeting
    Alice->>Bob: Hello

    Bob-->>Alice: Hi!
`)
	require.NoError(t, err)
	assert.Len(t, d.Statements, 2)
}

func TestSequenceActivationStatements(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    Alice->>Bob: Hello
    activate Bob
    Bob-->>Alice: Hi!
    deactivate Bob
    destroy Bob
`)
	require.NoError(t, err)
	require.Len(t, d.Statements, 5)
	assert.Equal(t, tmast.Activate{ID: "Bob"}, d.Statements[1])
	assert.Equal(t, tmast.Deactivate{ID: "Bob"}, d.Statements[3])
	assert.Equal(t, tmast.Destroy{ID: "Bob"}, d.Statements[4])
}

func TestSequenceShorthandModifiers(t *testing.T) {
	d, err := tmparser.ParseSequence("sequenceDiagram\nAlice->>+Bob: Hello\nBob-->>-Alice: Hi!\n")
	require.NoError(t, err)
	m := d.Statements[0].(tmast.Message)
	assert.True(t, m.ActivateTarget)
	assert.False(t, m.DeactivateSource)
	m2 := d.Statements[1].(tmast.Message)
	assert.False(t, m2.ActivateTarget)
	assert.True(t, m2.DeactivateSource)
}

func TestSequenceAutonumber(t *testing.T) {
	d, err := tmparser.ParseSequence("sequenceDiagram\nautonumber\nA->>B: hi\n")
	require.NoError(t, err)
	assert.Equal(t, tmast.AutoNumber{}, d.Statements[0])
}

func TestSequenceNotes(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    Note right of Alice: This is a note
    Note left of Bob: Left note
    Note over Alice: Centered
    Note over Alice,Bob: Spanning note
`)
	require.NoError(t, err)
	require.Len(t, d.Statements, 4)
	assert.Equal(t, tmast.Note{Placement: tmast.NoteRightOf, Anchor: "Alice", Text: "This is a note"}, d.Statements[0])
	assert.Equal(t, tmast.Note{Placement: tmast.NoteLeftOf, Anchor: "Bob", Text: "Left note"}, d.Statements[1])
	assert.Equal(t, tmast.Note{Placement: tmast.NoteOver, Anchor: "Alice", Text: "Centered"}, d.Statements[2])
	assert.Equal(t, tmast.Note{Placement: tmast.NoteOverTwo, Anchor: "Alice", Anchor2: "Bob", Text: "Spanning note"}, d.Statements[3])
}

func TestSequenceLoop(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    A->>B: Hello
    loop Check
        A->>B: Ping
        B-->>A: Pong
    end
    B-->>A: Bye
`)
	require.NoError(t, err)
	require.Len(t, d.Statements, 3)
	b, ok := d.Statements[1].(tmast.Block)
	require.True(t, ok)
	assert.Equal(t, tmast.BlockLoop, b.Kind)
	assert.Equal(t, "Check", b.Label)
	assert.Len(t, b.Body, 2)
	assert.Empty(t, b.Branches)
}

func TestSequenceAltElse(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    alt Happy
        A->>B: Yes
    else Sad
        A->>B: No
    end
`)
	require.NoError(t, err)
	b := d.Statements[0].(tmast.Block)
	assert.Equal(t, tmast.BlockAlt, b.Kind)
	assert.Equal(t, "Happy", b.Label)
	assert.Len(t, b.Body, 1)
	require.Len(t, b.Branches, 1)
	assert.Equal(t, "Sad", b.Branches[0].Label)
	assert.Len(t, b.Branches[0].Body, 1)
}

func TestSequenceParAndCritical(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    par First
        A->>B: a
    and Second
        A->>C: b
    end
    critical Connect
        A->>D: open
    option Timeout
        A->>D: retry
    end
`)
	require.NoError(t, err)
	require.Len(t, d.Statements, 2)
	par := d.Statements[0].(tmast.Block)
	assert.Equal(t, tmast.BlockPar, par.Kind)
	require.Len(t, par.Branches, 1)
	assert.Equal(t, "Second", par.Branches[0].Label)
	crit := d.Statements[1].(tmast.Block)
	assert.Equal(t, tmast.BlockCritical, crit.Kind)
	require.Len(t, crit.Branches, 1)
	assert.Equal(t, "Timeout", crit.Branches[0].Label)
}

func TestSequenceNestedBlocks(t *testing.T) {
	d, err := tmparser.ParseSequence(`sequenceDiagram
    loop Outer
        opt Inner
            A->>B: hi
        end
    end
`)
	require.NoError(t, err)
	outer := d.Statements[0].(tmast.Block)
	require.Len(t, outer.Body, 1)
	inner := outer.Body[0].(tmast.Block)
	assert.Equal(t, tmast.BlockOpt, inner.Kind)
	assert.Len(t, inner.Body, 1)
}

func TestSequenceRectWithoutLabel(t *testing.T) {
	d, err := tmparser.ParseSequence("sequenceDiagram\nrect\nA->>B: hi\nend\n")
	require.NoError(t, err)
	b := d.Statements[0].(tmast.Block)
	assert.Equal(t, tmast.BlockRect, b.Kind)
	assert.Empty(t, b.Label)
}

func TestSequenceErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"missing header", "Alice->>Bob: Hello\n", "syntax error at line 1"},
		{"garbage line", "sequenceDiagram\nAlice->>Bob Hello\n", "syntax error at line 2"},
		{"stray end", "sequenceDiagram\nend\n", "syntax error at line 2"},
		{"unterminated loop", "sequenceDiagram\nloop Forever\nA->>B: hi\n", "missing `end`"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := tmparser.ParseSequence(tc.input)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}
