// Package tmascii draws positioned layouts onto a character canvas and
// returns the finished diagram as a string.
package tmascii

import (
	"context"

	"cdr.dev/slog"

	"github.com/termaid/termaid/lib/log"
	"github.com/termaid/termaid/lib/textmeasure"
	"github.com/termaid/termaid/tmast"
	"github.com/termaid/termaid/tmlayouts/tmsequence"
	"github.com/termaid/termaid/tmrenderers/tmascii/asciicanvas"
	"github.com/termaid/termaid/tmrenderers/tmascii/charset"
)

type frameSides struct{ left, right int }

// RenderSequence draws l: participant boxes top and bottom, lifelines between
// them, and one band of rows per message, note, fragment rule or destroy
// marker.
func RenderSequence(ctx context.Context, l *tmsequence.Layout) string {
	maxBox := 0
	for _, p := range l.Participants {
		maxBox = max(maxBox, p.BoxHeight)
	}
	body := 0
	for _, r := range l.Rows {
		body += r.Height()
	}
	c := asciicanvas.New(l.TotalWidth, maxBox+body+maxBox)

	for _, p := range l.Participants {
		drawParticipantBox(c, p, 0, maxBox, true)
	}

	alive := make([]bool, len(l.Participants))
	for i := range alive {
		alive[i] = true
	}

	var frames []frameSides
	y := maxBox
	for i, row := range l.Rows {
		act := l.Activations[i]
		h := row.Height()
		switch row := row.(type) {
		case *tmsequence.MessageRow:
			drawLifelines(c, l, alive, act, y, h)
			drawFrameSides(c, frames, -1, y, h)
			if row.SelfLoop() {
				drawSelfLoop(c, l.Participants[row.From].CenterCol, y, row)
			} else {
				drawMessage(c, y, row)
			}
		case *tmsequence.NoteRow:
			drawLifelines(c, l, alive, act, y, h)
			drawFrameSides(c, frames, -1, y, h)
			drawTextBox(c, row.BoxLeft, y, row.BoxRight-row.BoxLeft+1, h, row.Text)
		case *tmsequence.FrameRow:
			switch row.Kind {
			case tmsequence.FrameStart:
				drawFrameSides(c, frames, -1, y, 1)
				drawFrameRule(c, l, alive, row, y, charset.TopLeftCorner, charset.TopRightCorner)
				frames = append(frames, frameSides{row.Left, row.Right})
			case tmsequence.FrameDivider:
				drawFrameSides(c, frames, len(frames)-1, y, 1)
				drawFrameRule(c, l, alive, row, y, charset.TRight, charset.TLeft)
			case tmsequence.FrameEnd:
				frames = frames[:len(frames)-1]
				drawFrameSides(c, frames, -1, y, 1)
				drawFrameRule(c, l, alive, row, y, charset.BottomLeftCorner, charset.BottomRightCorner)
			}
		case *tmsequence.DestroyRow:
			drawLifelines(c, l, alive, act, y, h)
			drawFrameSides(c, frames, -1, y, h)
			c.Set(row.Col, y, charset.DestroyedDot)
			alive[row.Participant] = false
		}
		y += h
	}

	for i, p := range l.Participants {
		if l.Destroyed[i] {
			continue
		}
		drawParticipantBox(c, p, y, maxBox, false)
	}

	log.Debug(ctx, "rendered sequence diagram",
		slog.F("width", c.Width()),
		slog.F("height", c.Height()))
	return c.String()
}

// drawParticipantBox draws one header or footer box. All boxes in a band
// share the band height so their rules align; a stem connector joins the box
// to its lifeline.
func drawParticipantBox(c *asciicanvas.Canvas, p tmsequence.Participant, y, h int, top bool) {
	drawTextBox(c, p.BoxLeft, y, p.BoxRight-p.BoxLeft+1, h, p.Name)
	if top {
		c.Set(p.CenterCol, y+h-1, charset.TDown)
	} else {
		c.Set(p.CenterCol, y, charset.TUp)
	}
}

// drawTextBox draws a bordered box with text at a two-column inset, centered
// vertically, blanking the interior so anything underneath is covered.
func drawTextBox(c *asciicanvas.Canvas, x, y, w, h int, text string) {
	c.Set(x, y, charset.TopLeftCorner)
	c.Set(x+w-1, y, charset.TopRightCorner)
	c.Set(x, y+h-1, charset.BottomLeftCorner)
	c.Set(x+w-1, y+h-1, charset.BottomRightCorner)
	for xx := x + 1; xx < x+w-1; xx++ {
		c.Set(xx, y, charset.Horizontal)
		c.Set(xx, y+h-1, charset.Horizontal)
	}
	for yy := y + 1; yy < y+h-1; yy++ {
		c.Set(x, yy, charset.Vertical)
		c.Set(x+w-1, yy, charset.Vertical)
		for xx := x + 1; xx < x+w-1; xx++ {
			c.Set(xx, yy, ' ')
		}
	}
	lines := textmeasure.SplitLines(text)
	ty := y + 1 + (h-2-len(lines))/2
	for i, line := range lines {
		c.Write(x+2, ty+i, line)
	}
}

func lifelineGlyph(active bool) rune {
	if active {
		return charset.HeavyVertical
	}
	return charset.Vertical
}

func drawLifelines(c *asciicanvas.Canvas, l *tmsequence.Layout, alive, act []bool, y, h int) {
	for i, p := range l.Participants {
		if !alive[i] {
			continue
		}
		g := lifelineGlyph(act[i])
		for yy := y; yy < y+h; yy++ {
			c.Set(p.CenterCol, yy, g)
		}
	}
}

// drawFrameSides draws the vertical borders of every open fragment over a row
// band. skip excludes the fragment whose own rule occupies the band.
func drawFrameSides(c *asciicanvas.Canvas, frames []frameSides, skip, y, h int) {
	for i, f := range frames {
		if i == skip {
			continue
		}
		for yy := y; yy < y+h; yy++ {
			c.Set(f.left, yy, charset.Vertical)
			c.Set(f.right, yy, charset.Vertical)
		}
	}
}

// drawFrameRule draws one horizontal fragment rule. Lifelines crossing the
// rule become ┼ unless the label covers their column.
func drawFrameRule(c *asciicanvas.Canvas, l *tmsequence.Layout, alive []bool, row *tmsequence.FrameRow, y int, lcorner, rcorner rune) {
	c.Set(row.Left, y, lcorner)
	for x := row.Left + 1; x < row.Right; x++ {
		c.Set(x, y, charset.Horizontal)
	}
	c.Set(row.Right, y, rcorner)
	labelEnd := row.Left
	if row.Label != "" {
		c.Write(row.Left+2, y, row.Label)
		labelEnd = row.Left + 2 + textmeasure.StringWidth(row.Label)
	}
	for i, p := range l.Participants {
		if !alive[i] {
			continue
		}
		if cx := p.CenterCol; cx > row.Left && cx < row.Right && cx > labelEnd {
			c.Set(cx, y, charset.Cross)
		}
	}
}

// drawMessage draws text lines above a horizontal arrow. Dotted lines
// alternate dash and blank starting with a dash; right-to-left arrows keep a
// dash against the sender so the line reaches its lifeline.
func drawMessage(c *asciicanvas.Canvas, y int, r *tmsequence.MessageRow) {
	left, right := r.FromCol, r.ToCol
	ltr := left <= right
	if !ltr {
		left, right = right, left
	}
	lines := textmeasure.SplitLines(r.Text)
	for i, line := range lines {
		c.Write(left+2, y+i, line)
	}

	ya := y + len(lines)
	for x := left + 1; x < right; x++ {
		if r.Arrow.Line == tmast.LineDotted && (x-(left+1))%2 != 0 {
			c.Set(x, ya, ' ')
		} else {
			c.Set(x, ya, charset.Horizontal)
		}
	}
	head := charset.ArrowRight
	if r.Arrow.Head == tmast.HeadCross {
		head = charset.ArrowCross
	}
	if ltr {
		c.Set(right-1, ya, head)
		return
	}
	if head == charset.ArrowRight {
		head = charset.ArrowLeft
	}
	c.Set(right-1, ya, charset.Horizontal)
	c.Set(left+1, ya, head)
}

// drawSelfLoop draws a message that arcs out to the right of its own
// lifeline and returns to it.
func drawSelfLoop(c *asciicanvas.Canvas, cx, y int, r *tmsequence.MessageRow) {
	arm := cx + tmsequence.SELF_LOOP_ARM
	for x := cx + 1; x < arm; x++ {
		c.Set(x, y, charset.Horizontal)
	}
	c.Set(arm, y, charset.TopRightCorner)

	lines := textmeasure.SplitLines(r.Text)
	for i, line := range lines {
		c.Set(arm, y+1+i, charset.Vertical)
		c.Write(cx+2, y+1+i, line)
	}

	yr := y + 1 + len(lines)
	head := charset.ArrowLeft
	if r.Arrow.Head == tmast.HeadCross {
		head = charset.ArrowCross
	}
	c.Set(cx+1, yr, head)
	for x := cx + 2; x < arm; x++ {
		c.Set(x, yr, charset.Horizontal)
	}
	c.Set(arm, yr, charset.BottomRightCorner)
}
