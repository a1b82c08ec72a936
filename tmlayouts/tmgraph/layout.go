// Package tmgraph positions flowchart nodes on the grid. Nodes are ranked by
// longest predecessor chain, ranks flow top-down or left-right per the
// diagram direction, and each subgraph is laid out independently and placed
// as a bordered block along the primary axis.
package tmgraph

import (
	"context"
	"errors"
	"fmt"

	"cdr.dev/slog"

	"github.com/termaid/termaid/lib/log"
	"github.com/termaid/termaid/lib/textmeasure"
	"github.com/termaid/termaid/tmast"
	"github.com/termaid/termaid/tmlayouts/tmrank"
)

// Node is a positioned flowchart node. X, Y is the top-left corner of its
// shape; W and H include the border.
type Node struct {
	ID    string
	Label string
	Shape tmast.NodeShape
	X, Y  int
	W, H  int
}

func (n *Node) CenterX() int { return n.X + n.W/2 }
func (n *Node) CenterY() int { return n.Y + n.H/2 }

// Edge connects two nodes by index.
type Edge struct {
	From, To int
	Kind     tmast.EdgeKind
	Label    string
}

// SubgraphBox is the border drawn around one subgraph's nodes.
type SubgraphBox struct {
	Label      string
	X, Y, W, H int
}

type Layout struct {
	Direction tmast.GraphDirection
	Nodes     []Node
	Edges     []Edge
	Subgraphs []SubgraphBox
	Width     int
	Height    int
}

// Compute lays out d with no width constraint.
func Compute(ctx context.Context, d *tmast.GraphDiagram) (*Layout, error) {
	return compute(ctx, d, 0)
}

// ComputeWithMaxWidth lays out d within maxWidth columns by closing up the
// gaps between nodes. Subgraph diagrams have no slack to give and fail
// immediately when too wide. A maxWidth of zero or less means
// unconstrained.
func ComputeWithMaxWidth(ctx context.Context, d *tmast.GraphDiagram, maxWidth int) (*Layout, error) {
	return compute(ctx, d, maxWidth)
}

func compute(ctx context.Context, d *tmast.GraphDiagram, maxWidth int) (*Layout, error) {
	if len(d.Nodes) == 0 {
		return nil, errors.New("no nodes found")
	}

	b := newBuilder(d)
	gap := TD_NODE_GAP
	if d.Direction == tmast.DirectionLeftRight {
		gap = LR_RANK_GAP
	}

	l := b.layout(gap)
	if maxWidth <= 0 || l.Width <= maxWidth {
		log.Debug(ctx, "graph layout",
			slog.F("nodes", len(l.Nodes)),
			slog.F("width", l.Width),
			slog.F("height", l.Height))
		return l, nil
	}
	if len(d.Subgraphs) > 0 {
		return nil, fmt.Errorf("cannot fit diagram in %d columns: subgraphs cannot be compacted", maxWidth)
	}
	for g := gap - 1; g >= 1; g-- {
		if l = b.layout(g); l.Width <= maxWidth {
			log.Debug(ctx, "graph layout compacted to fit",
				slog.F("gap", g),
				slog.F("width", l.Width))
			return l, nil
		}
	}
	return nil, fmt.Errorf("cannot fit diagram in %d columns: minimum width is %d", maxWidth, l.Width)
}

// group is one independently laid out block: a subgraph, or the trailing
// block of nodes outside any subgraph.
type group struct {
	label string
	boxed bool
	nodes []int
}

type builder struct {
	d      *tmast.GraphDiagram
	index  map[string]int
	sizes  []Node // template nodes with W, H and zero position
	edges  []Edge
	groups []group
}

func newBuilder(d *tmast.GraphDiagram) *builder {
	b := &builder{d: d, index: make(map[string]int, len(d.Nodes))}
	for i, n := range d.Nodes {
		b.index[n.ID] = i
		w := textmeasure.MultilineWidth(n.Label) + 2*HORIZONTAL_PAD
		if n.Shape == tmast.ShapeCircle {
			w += CIRCLE_EXTRA
		}
		b.sizes = append(b.sizes, Node{
			ID:    n.ID,
			Label: n.Label,
			Shape: n.Shape,
			W:     w,
			H:     2 + textmeasure.LineCount(n.Label),
		})
	}
	for _, e := range d.Edges {
		b.edges = append(b.edges, Edge{
			From:  b.index[e.From],
			To:    b.index[e.To],
			Kind:  e.Kind,
			Label: e.Label,
		})
	}

	claimed := make([]bool, len(d.Nodes))
	for _, sg := range d.Subgraphs {
		g := group{label: sg.Label, boxed: true}
		for _, id := range sg.NodeIDs {
			if i, ok := b.index[id]; ok && !claimed[i] {
				g.nodes = append(g.nodes, i)
				claimed[i] = true
			}
		}
		b.groups = append(b.groups, g)
	}
	var bare group
	for i := range d.Nodes {
		if !claimed[i] {
			bare.nodes = append(bare.nodes, i)
		}
	}
	if len(bare.nodes) > 0 {
		b.groups = append(b.groups, bare)
	}
	return b
}

func (b *builder) layout(gap int) *Layout {
	l := &Layout{
		Direction: b.d.Direction,
		Nodes:     append([]Node(nil), b.sizes...),
		Edges:     b.edges,
	}

	cursor := 0
	for _, g := range b.groups {
		cw, ch := b.layoutGroup(l.Nodes, g, gap)

		bw, bh := cw, ch
		ox, oy := 0, 0
		if g.boxed {
			bw = max(cw+2*SUBGRAPH_PAD_X, textmeasure.StringWidth(g.label)+SUBGRAPH_TITLE_DECOR)
			bh = ch + 2*SUBGRAPH_PAD_Y
			ox, oy = SUBGRAPH_PAD_X, SUBGRAPH_PAD_Y
		}

		var gx, gy int
		if b.d.Direction == tmast.DirectionLeftRight {
			gx, cursor = cursor, cursor+bw+LR_RANK_GAP
		} else {
			gy, cursor = cursor, cursor+bh+TD_RANK_SPACING
		}
		for _, i := range g.nodes {
			l.Nodes[i].X += gx + ox
			l.Nodes[i].Y += gy + oy
		}
		if g.boxed {
			l.Subgraphs = append(l.Subgraphs, SubgraphBox{Label: g.label, X: gx, Y: gy, W: bw, H: bh})
		}
		l.Width = max(l.Width, gx+bw)
		l.Height = max(l.Height, gy+bh)
	}

	// top-down edge labels sit on the connector and can poke past the last box
	if b.d.Direction == tmast.DirectionTopDown {
		for _, e := range l.Edges {
			if e.Label == "" {
				continue
			}
			lw := textmeasure.StringWidth(e.Label)
			from := &l.Nodes[e.From]
			l.Width = max(l.Width, max(0, from.CenterX()-lw/2)+lw)
		}
	}
	return l
}

// layoutGroup positions g's nodes relative to the group origin and returns
// the content extent. Only edges internal to the group influence ranking.
func (b *builder) layoutGroup(nodes []Node, g group, gap int) (w, h int) {
	member := make(map[int]bool, len(g.nodes))
	ids := make([]string, 0, len(g.nodes))
	for _, i := range g.nodes {
		member[i] = true
		ids = append(ids, nodes[i].ID)
	}
	preds := make(map[string][]string)
	for _, e := range b.edges {
		if e.From != e.To && member[e.From] && member[e.To] {
			to := nodes[e.To].ID
			preds[to] = append(preds[to], nodes[e.From].ID)
		}
	}
	ranks := tmrank.Assign(ids, preds)
	buckets := tmrank.Grouped(ids, ranks)

	if b.d.Direction == tmast.DirectionLeftRight {
		return b.layoutLR(nodes, member, buckets, ranks, gap)
	}
	return b.layoutTD(nodes, buckets, gap)
}

// layoutTD stacks ranks downward, each rank centered against the widest one.
func (b *builder) layoutTD(nodes []Node, buckets [][]string, gap int) (w, h int) {
	rankW := make([]int, len(buckets))
	for r, bucket := range buckets {
		rw := -gap
		for _, id := range bucket {
			rw += nodes[b.index[id]].W + gap
		}
		rankW[r] = rw
		w = max(w, rw)
	}
	y := 0
	for r, bucket := range buckets {
		x := (w - rankW[r]) / 2
		rowH := 0
		for _, id := range bucket {
			n := &nodes[b.index[id]]
			n.X, n.Y = x, y
			x += n.W + gap
			rowH = max(rowH, n.H)
		}
		y += rowH + TD_RANK_SPACING
	}
	return w, y - TD_RANK_SPACING
}

// layoutLR advances ranks rightward. The gap after a rank grows to fit the
// widest label on an edge crossing that rank boundary.
func (b *builder) layoutLR(nodes []Node, member map[int]bool, buckets [][]string, ranks map[string]int, gap int) (w, h int) {
	x := 0
	for r, bucket := range buckets {
		rankW, y := 0, 0
		for _, id := range bucket {
			n := &nodes[b.index[id]]
			n.X, n.Y = x, y
			y += n.H + LR_NODE_GAP
			rankW = max(rankW, n.W)
		}
		h = max(h, y-LR_NODE_GAP)

		boundary := gap
		for _, e := range b.edges {
			if e.Label == "" || !member[e.From] || !member[e.To] {
				continue
			}
			if ranks[nodes[e.From].ID] <= r && r < ranks[nodes[e.To].ID] {
				boundary = max(boundary, textmeasure.StringWidth(e.Label)+2)
			}
		}
		x += rankW
		if r < len(buckets)-1 {
			x += boundary
		}
	}
	return x, h
}
