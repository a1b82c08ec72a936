// Package asciicanvas is a fixed-size grid of character cells that the
// renderers draw into. Cells track wide-character continuation explicitly so
// that overwriting half of a double-width glyph never leaves a stray
// fragment, and box-drawing glyphs compose via Merge where edges cross.
package asciicanvas

import (
	"strings"

	"github.com/termaid/termaid/lib/textmeasure"
	"github.com/termaid/termaid/tmrenderers/tmascii/charset"
)

type cellKind uint8

const (
	cellBlank cellKind = iota
	cellGlyph
	// cellContinuation marks the trailing column of a double-width glyph.
	cellContinuation
)

type cell struct {
	r    rune
	kind cellKind
}

// Canvas is a w×h grid addressed by (x, y) with the origin at the top left.
// It is never resized after creation.
type Canvas struct {
	cells [][]cell
	w, h  int
}

func New(width, height int) *Canvas {
	cells := make([][]cell, height)
	for i := range cells {
		cells[i] = make([]cell, width)
	}
	return &Canvas{cells: cells, w: width, h: height}
}

func (c *Canvas) Width() int  { return c.w }
func (c *Canvas) Height() int { return c.h }

func (c *Canvas) IsInBounds(x, y int) bool {
	return y >= 0 && y < c.h && x >= 0 && x < c.w
}

// Get returns the visible rune at (x, y), or space for blank and
// continuation cells.
func (c *Canvas) Get(x, y int) rune {
	if !c.IsInBounds(x, y) {
		return ' '
	}
	if cl := c.cells[y][x]; cl.kind == cellGlyph {
		return cl.r
	}
	return ' '
}

func (c *Canvas) put(x, y int, cl cell) {
	if !c.IsInBounds(x, y) {
		return
	}
	// Overwriting the continuation half of a wide glyph orphans its base;
	// blank the base so no half-glyph survives.
	if c.cells[y][x].kind == cellContinuation && x > 0 && c.cells[y][x-1].kind != cellContinuation {
		c.cells[y][x-1] = cell{}
	}
	c.cells[y][x] = cl
}

// Set writes a single rune at (x, y). Writing a space blanks the cell.
func (c *Canvas) Set(x, y int, r rune) {
	if r == ' ' {
		c.put(x, y, cell{})
		return
	}
	c.put(x, y, cell{r: r, kind: cellGlyph})
}

// Write draws s left to right starting at (x, y). Each rune advances by its
// display width, leaving continuation cells behind double-width glyphs so
// later column arithmetic stays aligned.
func (c *Canvas) Write(x, y int, s string) {
	offset := 0
	for _, r := range s {
		c.Set(x+offset, y, r)
		w := textmeasure.RuneWidth(r)
		for j := 1; j < w; j++ {
			c.put(x+offset+j, y, cell{kind: cellContinuation})
		}
		if w == 0 {
			// zero-width mark: attaches to the previous column, nothing to place
			continue
		}
		offset += w
	}
}

// Merge composes a box-drawing glyph with whatever already occupies (x, y);
// see charset.Merge for the connection semantics.
func (c *Canvas) Merge(x, y int, r rune) {
	c.Set(x, y, charset.Merge(c.Get(x, y), r))
}

// String renders the grid: continuation cells are omitted, trailing spaces
// are trimmed per line, and lines are joined with newlines.
func (c *Canvas) String() string {
	lines := make([]string, c.h)
	var sb strings.Builder
	for y, row := range c.cells {
		sb.Reset()
		for _, cl := range row {
			switch cl.kind {
			case cellGlyph:
				sb.WriteRune(cl.r)
			case cellBlank:
				sb.WriteByte(' ')
			}
		}
		lines[y] = strings.TrimRight(sb.String(), " ")
	}
	return strings.Join(lines, "\n")
}
