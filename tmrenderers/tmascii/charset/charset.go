// Package charset names the Unicode box-drawing glyphs shared by the
// renderers and implements the connection-mask merge used where edges cross.
package charset

// Line and corner glyphs.
const (
	Horizontal       = '─'
	Vertical         = '│'
	HeavyVertical    = '┃'
	DottedHorizontal = '╌'
	DottedVertical   = '┊'
	ThickHorizontal  = '═'
	ThickVertical    = '║'

	TopLeftCorner     = '┌'
	TopRightCorner    = '┐'
	BottomLeftCorner  = '└'
	BottomRightCorner = '┘'
	TopLeftArc        = '╭'
	TopRightArc       = '╮'
	BottomLeftArc     = '╰'
	BottomRightArc    = '╯'
	DiagonalUp        = '╱'
	DiagonalDown      = '╲'

	TDown  = '┬'
	TUp    = '┴'
	TRight = '├'
	TLeft  = '┤'
	Cross  = '┼'
)

// Arrow heads and markers.
const (
	ArrowDown    = '▼'
	ArrowRight   = '>'
	ArrowLeft    = '<'
	ArrowCross   = 'x'
	DestroyedDot = '●'
)

// mask is a set of directions a glyph connects toward.
type mask uint8

const (
	left mask = 1 << iota
	right
	up
	down
)

// connections decomposes a box-drawing glyph into its connection mask.
// Unknown glyphs decompose to the empty mask.
func connections(r rune) mask {
	switch r {
	case Horizontal, ThickHorizontal, DottedHorizontal:
		return left | right
	case Vertical, ThickVertical, DottedVertical:
		return up | down
	case TopLeftCorner:
		return right | down
	case TopRightCorner:
		return left | down
	case BottomLeftCorner:
		return right | up
	case BottomRightCorner:
		return left | up
	case TDown:
		return left | right | down
	case TUp:
		return left | right | up
	case TRight:
		return up | down | right
	case TLeft:
		return up | down | left
	case Cross:
		return left | right | up | down
	}
	return 0
}

// glyph maps a connection mask back to the light box-drawing glyph with
// exactly those connections.
func glyph(m mask) (rune, bool) {
	switch m {
	case left | right:
		return Horizontal, true
	case up | down:
		return Vertical, true
	case right | down:
		return TopLeftCorner, true
	case left | down:
		return TopRightCorner, true
	case right | up:
		return BottomLeftCorner, true
	case left | up:
		return BottomRightCorner, true
	case left | right | down:
		return TDown, true
	case left | right | up:
		return TUp, true
	case up | down | right:
		return TRight, true
	case up | down | left:
		return TLeft, true
	case left | right | up | down:
		return Cross, true
	}
	return 0, false
}

// Merge composes the glyph already in a cell with an incoming one. When both
// are box-drawing glyphs the result connects toward the union of their
// directions; otherwise the incoming glyph wins.
func Merge(existing, incoming rune) rune {
	ec := connections(existing)
	if ec == 0 {
		return incoming
	}
	if r, ok := glyph(ec | connections(incoming)); ok {
		return r
	}
	return incoming
}
