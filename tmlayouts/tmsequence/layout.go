// Package tmsequence computes column positions and row geometry for sequence
// diagrams. Participants are laid out left to right in first-seen order and
// every statement that occupies vertical space becomes a Row; the renderer
// walks Rows top to bottom without re-measuring anything.
package tmsequence

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"cdr.dev/slog"

	"github.com/termaid/termaid/lib/log"
	"github.com/termaid/termaid/lib/textmeasure"
	"github.com/termaid/termaid/tmast"
)

// Participant is a positioned lifeline. Columns are absolute canvas columns.
type Participant struct {
	ID        string
	Name      string
	CenterCol int
	BoxLeft   int
	BoxRight  int
	BoxHeight int
}

// Row is one vertical slice of the diagram body. Height is in canvas rows.
type Row interface {
	Height() int
}

// MessageRow is an arrow between two lifelines, or a self loop when From and
// To coincide.
type MessageRow struct {
	From, To       int // participant indexes
	FromCol, ToCol int
	Text           string
	Arrow          tmast.Arrow
}

func (r *MessageRow) Height() int { return 2 + textmeasure.LineCount(r.Text) }

// SelfLoop reports whether the message loops back to its sender.
func (r *MessageRow) SelfLoop() bool { return r.From == r.To }

// NoteRow is a bordered note box spanning BoxLeft..BoxRight inclusive.
type NoteRow struct {
	BoxLeft  int
	BoxRight int
	Text     string
}

func (r *NoteRow) Height() int { return 2 + textmeasure.LineCount(r.Text) }

type FrameKind int

const (
	FrameStart FrameKind = iota
	FrameDivider
	FrameEnd
)

// FrameRow is the top, divider or bottom rule of a combined fragment such as
// loop or alt. Start, dividers and end of one fragment share Left and Right.
type FrameRow struct {
	Kind  FrameKind
	Left  int
	Right int
	Label string
}

func (r *FrameRow) Height() int { return 1 }

// DestroyRow marks the end of a participant's lifeline.
type DestroyRow struct {
	Participant int
	Col         int
}

func (r *DestroyRow) Height() int { return 1 }

// Layout is the fully positioned diagram. Activations holds one activation
// snapshot per Row, indexed by participant; Destroyed marks participants whose
// lifeline is terminated by a destroy statement.
type Layout struct {
	Participants []Participant
	Rows         []Row
	Activations  [][]bool
	Destroyed    []bool
	TotalWidth   int
}

// Compute lays out d with no width constraint.
func Compute(ctx context.Context, d *tmast.SequenceDiagram) (*Layout, error) {
	return compute(ctx, d, 0)
}

// ComputeWithMaxWidth lays out d within maxWidth columns, shrinking gaps and
// then truncating participant names as needed. A maxWidth of zero or less
// means unconstrained.
func ComputeWithMaxWidth(ctx context.Context, d *tmast.SequenceDiagram, maxWidth int) (*Layout, error) {
	return compute(ctx, d, maxWidth)
}

func compute(ctx context.Context, d *tmast.SequenceDiagram, maxWidth int) (*Layout, error) {
	ids, names, index := collectParticipants(d)
	if len(ids) == 0 {
		return nil, errors.New("no participants found")
	}

	f := &flattener{
		index:      index,
		depths:     make([]int, len(ids)),
		destroyed:  make([]bool, len(ids)),
		autonumber: hasAutonumber(d.Statements),
	}
	f.walk(d.Statements, 0)

	for {
		gaps := computeGaps(f.rows, names)
		l := f.build(ids, names, gaps)
		if maxWidth <= 0 || l.TotalWidth <= maxWidth {
			log.Debug(ctx, "sequence layout",
				slog.F("participants", len(ids)),
				slog.F("rows", len(l.Rows)),
				slog.F("width", l.TotalWidth))
			return l, nil
		}

		mins := minimumGaps(names)
		l = f.build(ids, names, shrinkGaps(gaps, mins, l.TotalWidth-maxWidth))
		if l.TotalWidth <= maxWidth {
			log.Debug(ctx, "sequence layout shrunk to fit",
				slog.F("max_width", maxWidth),
				slog.F("width", l.TotalWidth))
			return l, nil
		}

		if !truncateWidest(names) {
			return nil, fmt.Errorf("cannot fit diagram in %d columns: minimum width is %d", maxWidth, l.TotalWidth)
		}
	}
}

// collectParticipants walks the statement tree and registers every declared
// participant and message endpoint in first-seen order. Later mentions of a
// registered id never move it or change its display name.
func collectParticipants(d *tmast.SequenceDiagram) (ids, names []string, index map[string]int) {
	index = make(map[string]int)
	register := func(id, name string) {
		if _, ok := index[id]; ok {
			return
		}
		index[id] = len(ids)
		ids = append(ids, id)
		names = append(names, name)
	}
	var walk func(stmts []tmast.SequenceStatement)
	walk = func(stmts []tmast.SequenceStatement) {
		for _, s := range stmts {
			switch s := s.(type) {
			case tmast.ParticipantDecl:
				name := s.ID
				if s.Alias != "" {
					name = s.Alias
				}
				register(s.ID, name)
			case tmast.Message:
				register(s.From, s.From)
				register(s.To, s.To)
			case tmast.Block:
				walk(s.Body)
				for _, b := range s.Branches {
					walk(b.Body)
				}
			}
		}
	}
	walk(d.Statements)
	return ids, names, index
}

func hasAutonumber(stmts []tmast.SequenceStatement) bool {
	for _, s := range stmts {
		switch s := s.(type) {
		case tmast.AutoNumber:
			return true
		case tmast.Block:
			if hasAutonumber(s.Body) {
				return true
			}
			for _, b := range s.Branches {
				if hasAutonumber(b.Body) {
					return true
				}
			}
		}
	}
	return false
}

type flatKind int

const (
	flatMessage flatKind = iota
	flatNote
	flatFrameStart
	flatFrameDivider
	flatFrameEnd
	flatDestroy
)

// flatRow is a row before columns are known: participant indexes, text and
// frame nesting depth only.
type flatRow struct {
	kind      flatKind
	from, to  int
	text      string
	arrow     tmast.Arrow
	placement tmast.NotePlacement
	label     string
	maxLabel  int // widest label across the fragment's start and divider rows
	depth     int
}

type flattener struct {
	index      map[string]int
	depths     []int // current activation depth per participant
	destroyed  []bool
	autonumber bool
	seq        int
	rows       []flatRow
	snaps      [][]bool
}

func (f *flattener) emit(r flatRow) {
	snap := make([]bool, len(f.depths))
	for i, d := range f.depths {
		snap[i] = d > 0
	}
	f.rows = append(f.rows, r)
	f.snaps = append(f.snaps, snap)
}

func (f *flattener) walk(stmts []tmast.SequenceStatement, depth int) {
	for _, s := range stmts {
		switch s := s.(type) {
		case tmast.Message:
			from, to := f.index[s.From], f.index[s.To]
			if s.ActivateTarget {
				f.depths[to]++
			}
			text := s.Text
			if f.autonumber {
				f.seq++
				text = fmt.Sprintf("%d. %s", f.seq, text)
			}
			f.emit(flatRow{kind: flatMessage, from: from, to: to, text: text, arrow: s.Arrow})
			if s.DeactivateSource && f.depths[from] > 0 {
				f.depths[from]--
			}
		case tmast.Note:
			a, ok := f.index[s.Anchor]
			if !ok {
				continue
			}
			r := flatRow{kind: flatNote, from: a, to: a, text: s.Text, placement: s.Placement}
			if s.Placement == tmast.NoteOverTwo {
				b, ok := f.index[s.Anchor2]
				if !ok {
					continue
				}
				r.to = b
				if b == a {
					r.placement = tmast.NoteOver
				}
			}
			f.emit(r)
		case tmast.Activate:
			if i, ok := f.index[s.ID]; ok {
				f.depths[i]++
			}
		case tmast.Deactivate:
			if i, ok := f.index[s.ID]; ok && f.depths[i] > 0 {
				f.depths[i]--
			}
		case tmast.Destroy:
			if i, ok := f.index[s.ID]; ok {
				f.destroyed[i] = true
				f.emit(flatRow{kind: flatDestroy, from: i, to: i})
			}
		case tmast.Block:
			label := s.Kind.Keyword()
			if s.Label != "" {
				label += " " + s.Label
			}
			maxLabel := textmeasure.StringWidth(label)
			divider := s.Kind.DividerKeyword()
			for _, b := range s.Branches {
				bl := divider
				if b.Label != "" {
					bl += " " + b.Label
				}
				maxLabel = max(maxLabel, textmeasure.StringWidth(bl))
			}
			f.emit(flatRow{kind: flatFrameStart, label: label, maxLabel: maxLabel, depth: depth})
			f.walk(s.Body, depth+1)
			for _, b := range s.Branches {
				bl := divider
				if b.Label != "" {
					bl += " " + b.Label
				}
				f.emit(flatRow{kind: flatFrameDivider, label: bl, depth: depth})
				f.walk(b.Body, depth+1)
			}
			f.emit(flatRow{kind: flatFrameEnd, depth: depth})
		}
	}
}

// computeGaps returns center-to-center distances between adjacent lifelines:
// the default minimum, raised by the structural floor of adjacent box halves,
// then by every message and note that needs room. A message spanning several
// gaps spreads its demand evenly with the remainder rounded up.
func computeGaps(rows []flatRow, names []string) []int {
	n := len(names)
	if n < 2 {
		return nil
	}
	gaps := make([]int, n-1)
	for i := range gaps {
		gaps[i] = max(MIN_GAP, structuralMin(names, i))
	}

	demand := func(i, need int) {
		if i >= 0 && i < len(gaps) {
			gaps[i] = max(gaps[i], need)
		}
	}
	spread := func(lo, hi, required int) {
		span := hi - lo
		per := (required + span - 1) / span
		for i := lo; i < hi; i++ {
			gaps[i] = max(gaps[i], per)
		}
	}

	for _, r := range rows {
		switch r.kind {
		case flatMessage:
			w := textmeasure.MultilineWidth(r.text)
			if r.from == r.to {
				demand(r.from, max(SELF_LOOP_ARM, HORIZONTAL_PAD+w)+2)
				continue
			}
			lo, hi := order(r.from, r.to)
			spread(lo, hi, w+ARROW_DECORATION_WIDTH+2)
		case flatNote:
			box := textmeasure.MultilineWidth(r.text) + 2*HORIZONTAL_PAD
			switch r.placement {
			case tmast.NoteRightOf:
				demand(r.from, box+3)
			case tmast.NoteLeftOf:
				demand(r.from-1, box+3)
			case tmast.NoteOver:
				half := (box+1)/2 + 2
				demand(r.from-1, half)
				demand(r.from, half)
			case tmast.NoteOverTwo:
				lo, hi := order(r.from, r.to)
				spread(lo, hi, box-4)
			}
		}
	}
	return gaps
}

// structuralMin keeps adjacent participant boxes from touching: half of each
// box plus a column of air between them.
func structuralMin(names []string, i int) int {
	lh := textmeasure.MultilineWidth(names[i])/2 + HORIZONTAL_PAD
	rh := textmeasure.MultilineWidth(names[i+1])/2 + HORIZONTAL_PAD
	return lh + rh + 2
}

func minimumGaps(names []string) []int {
	if len(names) < 2 {
		return nil
	}
	mins := make([]int, len(names)-1)
	for i := range mins {
		mins[i] = structuralMin(names, i)
	}
	return mins
}

// shrinkGaps reduces gaps toward mins by excess columns total, taking from
// each gap in proportion to its slack. When the excess exceeds the available
// slack every gap bottoms out at its minimum.
func shrinkGaps(gaps, mins []int, excess int) []int {
	out := make([]int, len(gaps))
	slack := 0
	for i := range gaps {
		out[i] = max(gaps[i], mins[i])
		slack += out[i] - mins[i]
	}
	if slack <= excess {
		copy(out, mins)
		return out
	}
	remaining := excess
	for i := range out {
		cut := (out[i] - mins[i]) * excess / slack
		out[i] -= cut
		remaining -= cut
	}
	for i := 0; remaining > 0; i = (i + 1) % len(out) {
		if out[i] > mins[i] {
			out[i]--
			remaining--
		}
	}
	return out
}

// truncateWidest drops one grapheme from the widest truncatable display name,
// trying names widest first. It reports false when every name is already at
// the truncation floor.
func truncateWidest(names []string) bool {
	idx := make([]int, len(names))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return textmeasure.MultilineWidth(names[idx[a]]) > textmeasure.MultilineWidth(names[idx[b]])
	})
	for _, i := range idx {
		if t, ok := textmeasure.TruncateOne(names[i]); ok {
			names[i] = t
			return true
		}
	}
	return false
}

func order(a, b int) (int, int) {
	if a > b {
		return b, a
	}
	return a, b
}

type frameBounds struct{ left, right int }

// build positions participants from gaps and materializes rows with absolute
// columns. TotalWidth covers every box, frame, note and self loop arm.
func (f *flattener) build(ids, names []string, gaps []int) *Layout {
	parts := make([]Participant, len(ids))
	center := 0
	for i := range ids {
		w := textmeasure.MultilineWidth(names[i]) + 2*HORIZONTAL_PAD
		if i == 0 {
			center = w / 2
		} else {
			center += gaps[i-1]
		}
		parts[i] = Participant{
			ID:        ids[i],
			Name:      names[i],
			CenterCol: center,
			BoxLeft:   center - w/2,
			BoxRight:  center + (w-1)/2,
			BoxHeight: 2 + textmeasure.LineCount(names[i]),
		}
	}

	baseLeft := parts[0].BoxLeft
	baseRight := parts[len(parts)-1].BoxRight
	maxRight := baseRight

	var frames []frameBounds
	rows := make([]Row, 0, len(f.rows))
	for _, fr := range f.rows {
		switch fr.kind {
		case flatMessage:
			from, to := parts[fr.from], parts[fr.to]
			rows = append(rows, &MessageRow{
				From: fr.from, To: fr.to,
				FromCol: from.CenterCol, ToCol: to.CenterCol,
				Text: fr.text, Arrow: fr.arrow,
			})
			if fr.from == fr.to {
				maxRight = max(maxRight, from.CenterCol+SELF_LOOP_ARM)
				maxRight = max(maxRight, from.CenterCol+HORIZONTAL_PAD+textmeasure.MultilineWidth(fr.text)-1)
			}
		case flatNote:
			left, right := noteBox(parts, fr)
			maxRight = max(maxRight, right)
			rows = append(rows, &NoteRow{BoxLeft: left, BoxRight: right, Text: fr.text})
		case flatFrameStart:
			left := baseLeft + fr.depth
			right := max(baseRight-fr.depth, left+2+fr.maxLabel+1)
			frames = append(frames, frameBounds{left, right})
			maxRight = max(maxRight, right)
			rows = append(rows, &FrameRow{Kind: FrameStart, Left: left, Right: right, Label: fr.label})
		case flatFrameDivider:
			b := frames[len(frames)-1]
			rows = append(rows, &FrameRow{Kind: FrameDivider, Left: b.left, Right: b.right, Label: fr.label})
		case flatFrameEnd:
			b := frames[len(frames)-1]
			frames = frames[:len(frames)-1]
			rows = append(rows, &FrameRow{Kind: FrameEnd, Left: b.left, Right: b.right})
		case flatDestroy:
			rows = append(rows, &DestroyRow{Participant: fr.from, Col: parts[fr.from].CenterCol})
		}
	}

	return &Layout{
		Participants: parts,
		Rows:         rows,
		Activations:  f.snaps,
		Destroyed:    f.destroyed,
		TotalWidth:   maxRight + 1,
	}
}

func noteBox(parts []Participant, fr flatRow) (left, right int) {
	box := textmeasure.MultilineWidth(fr.text) + 2*HORIZONTAL_PAD
	a := parts[fr.from]
	switch fr.placement {
	case tmast.NoteRightOf:
		left = a.CenterCol + 2
		right = left + box - 1
	case tmast.NoteLeftOf:
		right = a.CenterCol - 2
		left = right - box + 1
		if left < 0 {
			left, right = 0, box-1
		}
	case tmast.NoteOver:
		left = max(0, a.CenterCol-box/2)
		right = left + box - 1
	case tmast.NoteOverTwo:
		lo, hi := order(fr.from, fr.to)
		left = max(0, parts[lo].CenterCol-2)
		right = max(parts[hi].CenterCol+2, left+box-1)
	}
	return left, right
}
