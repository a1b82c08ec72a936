package tmascii

import (
	"context"

	"cdr.dev/slog"

	"github.com/termaid/termaid/lib/log"
	"github.com/termaid/termaid/lib/textmeasure"
	"github.com/termaid/termaid/tmast"
	"github.com/termaid/termaid/tmlayouts/tmgraph"
	"github.com/termaid/termaid/tmrenderers/tmascii/asciicanvas"
	"github.com/termaid/termaid/tmrenderers/tmascii/charset"
)

// RenderGraph draws a positioned flowchart: subgraph borders first, then node
// shapes, then edges. Edge segments merge where they cross, so fan-out and
// fan-in bars compose from the individual edges.
func RenderGraph(ctx context.Context, l *tmgraph.Layout) string {
	c := asciicanvas.New(l.Width, l.Height)

	for i := range l.Subgraphs {
		drawSubgraphBox(c, &l.Subgraphs[i])
	}
	for i := range l.Nodes {
		drawNodeShape(c, &l.Nodes[i])
	}
	for _, e := range l.Edges {
		if e.From == e.To {
			continue
		}
		if l.Direction == tmast.DirectionLeftRight {
			drawEdgeLR(c, l, e)
		} else {
			drawEdgeTD(c, l, e)
		}
	}

	log.Debug(ctx, "rendered graph diagram",
		slog.F("width", c.Width()),
		slog.F("height", c.Height()))
	return c.String()
}

func drawSubgraphBox(c *asciicanvas.Canvas, sg *tmgraph.SubgraphBox) {
	x2, y2 := sg.X+sg.W-1, sg.Y+sg.H-1
	c.Set(sg.X, sg.Y, charset.TopLeftCorner)
	c.Set(x2, sg.Y, charset.TopRightCorner)
	c.Set(sg.X, y2, charset.BottomLeftCorner)
	c.Set(x2, y2, charset.BottomRightCorner)
	for x := sg.X + 1; x < x2; x++ {
		c.Set(x, sg.Y, charset.Horizontal)
		c.Set(x, y2, charset.Horizontal)
	}
	for y := sg.Y + 1; y < y2; y++ {
		c.Set(sg.X, y, charset.Vertical)
		c.Set(x2, y, charset.Vertical)
	}
	c.Write(sg.X+2, sg.Y, " "+sg.Label+" ")
}

func drawNodeShape(c *asciicanvas.Canvas, n *tmgraph.Node) {
	switch n.Shape {
	case tmast.ShapeRound, tmast.ShapeCircle:
		drawShapeFrame(c, n, charset.TopLeftArc, charset.TopRightArc, charset.BottomLeftArc, charset.BottomRightArc)
		for i, line := range textmeasure.SplitLines(n.Label) {
			c.Write(n.X+(n.W-textmeasure.StringWidth(line))/2, n.Y+1+i, line)
		}
	case tmast.ShapeDiamond:
		drawShapeFrame(c, n, charset.DiagonalUp, charset.DiagonalDown, charset.DiagonalDown, charset.DiagonalUp)
		for i, line := range textmeasure.SplitLines(n.Label) {
			c.Write(n.X+2, n.Y+1+i, line)
		}
	default:
		drawShapeFrame(c, n, charset.TopLeftCorner, charset.TopRightCorner, charset.BottomLeftCorner, charset.BottomRightCorner)
		for i, line := range textmeasure.SplitLines(n.Label) {
			c.Write(n.X+2, n.Y+1+i, line)
		}
	}
}

func drawShapeFrame(c *asciicanvas.Canvas, n *tmgraph.Node, tl, tr, bl, br rune) {
	x2, y2 := n.X+n.W-1, n.Y+n.H-1
	c.Set(n.X, n.Y, tl)
	c.Set(x2, n.Y, tr)
	c.Set(n.X, y2, bl)
	c.Set(x2, y2, br)
	for x := n.X + 1; x < x2; x++ {
		c.Set(x, n.Y, charset.Horizontal)
		c.Set(x, y2, charset.Horizontal)
	}
	for y := n.Y + 1; y < y2; y++ {
		c.Set(n.X, y, charset.Vertical)
		c.Set(x2, y, charset.Vertical)
		for x := n.X + 1; x < x2; x++ {
			c.Set(x, y, ' ')
		}
	}
}

func connectorGlyphs(k tmast.EdgeKind) (vert, horiz rune) {
	switch k {
	case tmast.EdgeDottedArrow, tmast.EdgeDottedLink:
		return charset.DottedVertical, charset.DottedHorizontal
	case tmast.EdgeThickArrow, tmast.EdgeThickLink:
		return charset.ThickVertical, charset.ThickHorizontal
	}
	return charset.Vertical, charset.Horizontal
}

// onSubgraphBorder reports whether (x, y) lies on a subgraph border, which
// edge segments must not overwrite.
func onSubgraphBorder(l *tmgraph.Layout, x, y int) bool {
	for _, sg := range l.Subgraphs {
		inX := x >= sg.X && x < sg.X+sg.W
		inY := y >= sg.Y && y < sg.Y+sg.H
		if inX && (y == sg.Y || y == sg.Y+sg.H-1) {
			return true
		}
		if inY && (x == sg.X || x == sg.X+sg.W-1) {
			return true
		}
	}
	return false
}

// drawEdgeTD draws one top-down edge: a stem through the source's bottom
// border, a horizontal jog at the rank gap when centers differ, a vertical
// run, and the head just above the target. Jogs from sibling edges merge
// into a single fan bar.
func drawEdgeTD(c *asciicanvas.Canvas, l *tmgraph.Layout, e tmgraph.Edge) {
	from, to := &l.Nodes[e.From], &l.Nodes[e.To]
	fx, tx := from.CenterX(), to.CenterX()
	barY := from.Y + from.H
	toAbove := to.Y - 1
	vert, _ := connectorGlyphs(e.Kind)

	c.Merge(fx, from.Y+from.H-1, charset.TDown)

	if tx == fx {
		if !onSubgraphBorder(l, fx, barY) {
			c.Merge(fx, barY, vert)
		}
	} else {
		fromEnd, toEnd := charset.BottomLeftCorner, charset.TopRightCorner
		step := 1
		if tx < fx {
			fromEnd, toEnd = charset.BottomRightCorner, charset.TopLeftCorner
			step = -1
		}
		c.Merge(fx, barY, fromEnd)
		for x := fx + step; x != tx; x += step {
			c.Merge(x, barY, charset.Horizontal)
		}
		c.Merge(tx, barY, toEnd)
	}
	for y := barY + 1; y < toAbove; y++ {
		if !onSubgraphBorder(l, tx, y) {
			c.Merge(tx, y, vert)
		}
	}
	if e.Kind.HasArrowHead() {
		c.Set(tx, toAbove, charset.ArrowDown)
	} else {
		c.Merge(tx, toAbove, vert)
	}
	if e.Label != "" {
		c.Write(max(0, fx-textmeasure.StringWidth(e.Label)/2), barY, e.Label)
	}
}

// drawEdgeLR draws one left-to-right edge: straight when the centers share a
// row, otherwise an L route through the midpoint of the rank gap. Labels sit
// one row above the source-side segment.
func drawEdgeLR(c *asciicanvas.Canvas, l *tmgraph.Layout, e tmgraph.Edge) {
	from, to := &l.Nodes[e.From], &l.Nodes[e.To]
	fy, ty := from.CenterY(), to.CenterY()
	startX := from.X + from.W
	endX := to.X - 1
	vert, horiz := connectorGlyphs(e.Kind)

	fill := func(x1, x2, y int) {
		for x := x1; x <= x2; x++ {
			if !onSubgraphBorder(l, x, y) {
				c.Merge(x, y, horiz)
			}
		}
	}

	if fy == ty {
		fill(startX, endX, fy)
		if e.Kind.HasArrowHead() {
			c.Set(endX, fy, charset.ArrowRight)
		}
		if e.Label != "" {
			lw := textmeasure.StringWidth(e.Label)
			c.Write(max(0, startX+(endX-startX+1-lw)/2), fy-1, e.Label)
		}
		return
	}

	mid := startX + (to.X-startX)/2
	fill(startX, mid-1, fy)
	down, up := charset.TopRightCorner, charset.BottomLeftCorner
	if ty < fy {
		down, up = charset.BottomRightCorner, charset.TopLeftCorner
	}
	c.Merge(mid, fy, down)
	for y := min(fy, ty) + 1; y < max(fy, ty); y++ {
		if !onSubgraphBorder(l, mid, y) {
			c.Merge(mid, y, vert)
		}
	}
	c.Merge(mid, ty, up)
	fill(mid+1, endX, ty)
	if e.Kind.HasArrowHead() {
		c.Set(endX, ty, charset.ArrowRight)
	}
	if e.Label != "" {
		lw := textmeasure.StringWidth(e.Label)
		c.Write(max(0, startX+(mid-startX+1-lw)/2), fy-1, e.Label)
	}
}
