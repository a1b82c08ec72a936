// Package tmast holds the parsed representation of the three diagram
// languages. Values are plain data, built once by tmparser and read-only
// afterwards.
package tmast

// SequenceDiagram is the root of a parsed sequenceDiagram.
type SequenceDiagram struct {
	Statements []SequenceStatement
}

// SequenceStatement is one statement in a sequence diagram body. Block
// statements carry nested statement lists.
type SequenceStatement interface {
	seqStatement()
}

// ParticipantDecl declares a participant, optionally with a display alias.
// `create participant X` parses to the same declaration.
type ParticipantDecl struct {
	ID    string
	Alias string // empty when the id doubles as the display name
}

// Message is an arrow between two participants (or one, for a self message).
type Message struct {
	From, To string
	Arrow    Arrow
	Text     string

	// shorthand modifiers: A->>+B activates the target, A->>-B deactivates
	// the source
	ActivateTarget   bool
	DeactivateSource bool
}

type Arrow struct {
	Line LineStyle
	Head ArrowHead
}

type LineStyle int

const (
	LineSolid LineStyle = iota
	LineDotted
)

type ArrowHead int

const (
	HeadNone ArrowHead = iota
	HeadArrow
	HeadCross
	HeadOpen
)

// NotePlacement positions a note relative to its anchor participant(s).
type NotePlacement int

const (
	NoteRightOf NotePlacement = iota
	NoteLeftOf
	NoteOver
	NoteOverTwo
)

type Note struct {
	Placement NotePlacement
	Anchor    string
	Anchor2   string // second anchor, NoteOverTwo only
	Text      string
}

type Activate struct{ ID string }

type Deactivate struct{ ID string }

type Destroy struct{ ID string }

// AutoNumber switches on message numbering for the whole diagram.
type AutoNumber struct{}

type BlockKind int

const (
	BlockLoop BlockKind = iota
	BlockOpt
	BlockBreak
	BlockRect
	BlockAlt
	BlockPar
	BlockCritical
)

// Keyword returns the source keyword that opens the block, which is also the
// prefix of its rendered frame label.
func (k BlockKind) Keyword() string {
	switch k {
	case BlockLoop:
		return "loop"
	case BlockOpt:
		return "opt"
	case BlockBreak:
		return "break"
	case BlockRect:
		return "rect"
	case BlockAlt:
		return "alt"
	case BlockPar:
		return "par"
	case BlockCritical:
		return "critical"
	}
	return ""
}

// DividerKeyword returns the keyword introducing a divider branch, or "" for
// kinds that have none.
func (k BlockKind) DividerKeyword() string {
	switch k {
	case BlockAlt:
		return "else"
	case BlockPar:
		return "and"
	case BlockCritical:
		return "option"
	}
	return ""
}

// Block is a nested statement group: loop/opt/break/rect carry only Body;
// alt/par/critical additionally carry divider Branches.
type Block struct {
	Kind     BlockKind
	Label    string
	Body     []SequenceStatement
	Branches []Branch
}

// Branch is one divider section of an alt/par/critical block.
type Branch struct {
	Label string
	Body  []SequenceStatement
}

func (ParticipantDecl) seqStatement() {}
func (Message) seqStatement()         {}
func (Note) seqStatement()            {}
func (Activate) seqStatement()        {}
func (Deactivate) seqStatement()      {}
func (Destroy) seqStatement()         {}
func (AutoNumber) seqStatement()      {}
func (Block) seqStatement()           {}
