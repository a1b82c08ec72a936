package tmascii

import (
	"context"

	"cdr.dev/slog"

	"github.com/termaid/termaid/lib/log"
	"github.com/termaid/termaid/lib/textmeasure"
	"github.com/termaid/termaid/tmast"
	"github.com/termaid/termaid/tmlayouts/tmer"
	"github.com/termaid/termaid/tmrenderers/tmascii/asciicanvas"
	"github.com/termaid/termaid/tmrenderers/tmascii/charset"
)

// RenderER draws a positioned entity relationship diagram: entity boxes with
// optional attribute sections, joined by crow's foot relationship lines.
func RenderER(ctx context.Context, l *tmer.Layout) string {
	c := asciicanvas.New(l.Width, l.Height)

	for i := range l.Entities {
		drawEntityBox(c, &l.Entities[i])
	}
	for _, e := range l.Edges {
		drawRelationship(c, l, e)
	}

	log.Debug(ctx, "rendered er diagram",
		slog.F("width", c.Width()),
		slog.F("height", c.Height()))
	return c.String()
}

func drawEntityBox(c *asciicanvas.Canvas, e *tmer.Entity) {
	x2, y2 := e.X+e.W-1, e.Y+e.H-1
	c.Set(e.X, e.Y, charset.TopLeftCorner)
	c.Set(x2, e.Y, charset.TopRightCorner)
	c.Set(e.X, y2, charset.BottomLeftCorner)
	c.Set(x2, y2, charset.BottomRightCorner)
	for x := e.X + 1; x < x2; x++ {
		c.Set(x, e.Y, charset.Horizontal)
		c.Set(x, y2, charset.Horizontal)
	}
	for y := e.Y + 1; y < y2; y++ {
		c.Set(e.X, y, charset.Vertical)
		c.Set(x2, y, charset.Vertical)
	}
	c.Write(e.X+2, e.NameRowY(), e.Name)

	if len(e.Attributes) == 0 {
		return
	}
	c.Set(e.X, e.Y+2, charset.TRight)
	for x := e.X + 1; x < x2; x++ {
		c.Set(x, e.Y+2, charset.Horizontal)
	}
	c.Set(x2, e.Y+2, charset.TLeft)
	for i, a := range e.Attributes {
		c.Write(e.X+2, e.Y+3+i, tmer.AttributeText(a))
	}
}

func leftCardSymbol(card tmast.Cardinality) string {
	switch card {
	case tmast.ZeroOrOne:
		return "o|"
	case tmast.OneOrMany:
		return "}|"
	case tmast.ZeroOrMany:
		return "}o"
	}
	return "||"
}

func rightCardSymbol(card tmast.Cardinality) string {
	switch card {
	case tmast.ZeroOrOne:
		return "|o"
	case tmast.OneOrMany:
		return "|{"
	case tmast.ZeroOrMany:
		return "o{"
	}
	return "||"
}

// drawRelationship draws one crow's foot line on the source's name row:
// cardinality symbol, dashes, the centered label, dashes, symbol. A
// relationship pointing left is drawn right to left with its cardinalities
// mirrored.
func drawRelationship(c *asciicanvas.Canvas, l *tmer.Layout, e tmer.Edge) {
	from, to := &l.Entities[e.From], &l.Entities[e.To]
	leftCard, rightCard := e.LeftCard, e.RightCard
	if to.X < from.X {
		from, to = to, from
		leftCard, rightCard = rightCard, leftCard
	}
	y := from.NameRowY()
	startX := from.X + from.W
	endX := to.X - 1
	if endX-startX+1 < 2*len("||")+4 {
		return
	}

	c.Write(startX, y, leftCardSymbol(leftCard))
	for x := startX + 2; x <= endX-2; x++ {
		c.Set(x, y, charset.Horizontal)
	}
	c.Write(endX-1, y, rightCardSymbol(rightCard))

	if e.Label != "" {
		span := endX - startX - 3
		lw := textmeasure.StringWidth(e.Label)
		c.Write(startX+2+(span-lw)/2, y, e.Label)
	}
}
