// Package tmer positions entity relationship diagrams: entities flow left to
// right by relationship rank and stack vertically within a rank, and each
// rank gap is wide enough for the crow's foot decorations and the widest
// relationship label crossing it.
package tmer

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

const (
	// MIN_GAP separates adjacent ranks with no relationship crossing them.
	MIN_GAP = 6

	// EDGE_DECOR is the column cost of a relationship line beyond its label:
	// a two-column cardinality symbol and two dashes on each side.
	EDGE_DECOR = 8

	// HORIZONTAL_PAD is the padding on each side of text inside an entity box.
	HORIZONTAL_PAD = 2

	// VERTICAL_GAP separates entities stacked within one rank.
	VERTICAL_GAP = 1
)

// Entity is a positioned entity box. With attributes the box holds the name,
// a separator rule and one row per attribute.
type Entity struct {
	Name       string
	Attributes []tmast.EntityAttribute
	X, Y, W, H int
}

// NameRowY returns the canvas row of the entity's name, which is also the
// row its relationship lines attach to.
func (e *Entity) NameRowY() int { return e.Y + 1 }

// Edge is a relationship between two entities by index.
type Edge struct {
	From, To            int
	LeftCard, RightCard tmast.Cardinality
	Label               string
}

type Layout struct {
	Entities []Entity
	Edges    []Edge
	Width    int
	Height   int
}

// AttributeText formats one attribute row: type and name, with the key
// marker appended when present.
func AttributeText(a tmast.EntityAttribute) string {
	s := a.Type + " " + a.Name
	if a.Key != "" {
		s += " " + a.Key
	}
	return s
}

// Compute lays out d with no width constraint.
func Compute(ctx context.Context, d *tmast.ERDiagram) (*Layout, error) {
	return compute(ctx, d, 0)
}

// ComputeWithMaxWidth lays out d and fails when the result exceeds maxWidth:
// entity boxes and relationship decorations have no slack to give. A
// maxWidth of zero or less means unconstrained.
func ComputeWithMaxWidth(ctx context.Context, d *tmast.ERDiagram, maxWidth int) (*Layout, error) {
	return compute(ctx, d, maxWidth)
}

func compute(ctx context.Context, d *tmast.ERDiagram, maxWidth int) (*Layout, error) {
	if len(d.Entities) == 0 {
		return nil, errors.New("no entities found")
	}

	index := make(map[string]int, len(d.Entities))
	ids := make([]string, len(d.Entities))
	l := &Layout{Entities: make([]Entity, len(d.Entities))}
	for i, e := range d.Entities {
		index[e.Name] = i
		ids[i] = e.Name
		w := textmeasure.StringWidth(e.Name)
		h := 3
		if len(e.Attributes) > 0 {
			h = 4 + len(e.Attributes)
			for _, a := range e.Attributes {
				w = max(w, textmeasure.StringWidth(AttributeText(a)))
			}
		}
		l.Entities[i] = Entity{Name: e.Name, Attributes: e.Attributes, W: w + 2*HORIZONTAL_PAD, H: h}
	}

	preds := make(map[string][]string)
	for _, r := range d.Relationships {
		l.Edges = append(l.Edges, Edge{
			From: index[r.From], To: index[r.To],
			LeftCard: r.LeftCard, RightCard: r.RightCard,
			Label: r.Label,
		})
		if r.From != r.To {
			preds[r.To] = append(preds[r.To], r.From)
		}
	}
	ranks := tmrank.Assign(ids, preds)
	buckets := tmrank.Grouped(ids, ranks)

	x := 0
	for r, bucket := range buckets {
		rankW, y := 0, 0
		for _, name := range bucket {
			e := &l.Entities[index[name]]
			e.X, e.Y = x, y
			y += e.H + VERTICAL_GAP
			rankW = max(rankW, e.W)
		}
		l.Height = max(l.Height, y-VERTICAL_GAP)

		gap := MIN_GAP
		for _, e := range l.Edges {
			if ranks[ids[e.From]] <= r && r < ranks[ids[e.To]] {
				gap = max(gap, textmeasure.StringWidth(e.Label)+EDGE_DECOR)
			}
		}
		x += rankW
		if r < len(buckets)-1 {
			x += gap
		}
	}
	l.Width = x

	if maxWidth > 0 && l.Width > maxWidth {
		return nil, fmt.Errorf("cannot fit diagram in %d columns: entity diagrams cannot be compacted", maxWidth)
	}
	log.Debug(ctx, "er layout",
		slog.F("entities", len(l.Entities)),
		slog.F("width", l.Width),
		slog.F("height", l.Height))
	return l, nil
}
