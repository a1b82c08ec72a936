package tmparser

import (
	"fmt"
	"strings"

	"github.com/termaid/termaid/tmast"
)

// ParseGraph parses a graph/flowchart source into its AST. Node ids are
// deduplicated in first-seen order; a later declaration with an explicit
// shape label upgrades an earlier bare reference.
func ParseGraph(input string) (*tmast.GraphDiagram, error) {
	p := &graphParser{
		lineScanner: newLineScanner(input),
		d:           &tmast.GraphDiagram{},
		index:       map[string]int{},
		explicit:    map[string]bool{},
	}
	c, num, err := p.header("graph", "flowchart")
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	switch {
	case c.lit("TD"), c.lit("TB"):
		p.d.Direction = tmast.DirectionTopDown
	case c.lit("LR"):
		p.d.Direction = tmast.DirectionLeftRight
	default:
		return nil, errSyntax(num, c.s)
	}
	c.skipSpaces()
	if !c.eof() {
		return nil, errSyntax(num, c.s)
	}

	if err := p.parseLines(nil, 0); err != nil {
		return nil, err
	}
	return p.d, nil
}

type graphParser struct {
	*lineScanner
	d        *tmast.GraphDiagram
	index    map[string]int
	explicit map[string]bool
}

// parseLines reads node/edge/subgraph lines until EOF, or until `end` when
// members is non-nil (inside a subgraph opened at openLine).
func (p *graphParser) parseLines(members *[]string, openLine int) error {
	for {
		line, num, ok := p.next()
		if !ok {
			if members != nil {
				return fmt.Errorf("syntax error at line %d: subgraph is missing `end`", openLine)
			}
			return nil
		}
		t := strings.TrimSpace(line)
		if skippable(t) {
			continue
		}
		if t == "end" {
			if members == nil {
				return errSyntax(num, line)
			}
			return nil
		}
		if word, rest := splitKeyword(t); word == "subgraph" {
			if rest == "" {
				return errSyntax(num, line)
			}
			var inner []string
			if err := p.parseLines(&inner, num); err != nil {
				return err
			}
			p.d.Subgraphs = append(p.d.Subgraphs, tmast.Subgraph{Label: rest, NodeIDs: inner})
			continue
		}
		if err := p.parseNodeOrEdge(t, num, members); err != nil {
			return err
		}
	}
}

func (p *graphParser) parseNodeOrEdge(t string, num int, members *[]string) error {
	c := &cursor{s: t}
	from, err := p.nodeRef(c, num)
	if err != nil {
		return err
	}
	p.member(members, from.ID)
	c.skipSpaces()
	if c.eof() {
		return nil
	}

	kind, label, ok, err := edgeDecoration(c, num)
	if err != nil {
		return err
	}
	if !ok {
		return errSyntax(num, t)
	}
	c.skipSpaces()
	first, err := p.nodeRef(c, num)
	if err != nil {
		return err
	}
	targets := []string{first.ID}
	p.member(members, first.ID)
	for {
		c.skipSpaces()
		if !c.lit("&") {
			break
		}
		c.skipSpaces()
		next, err := p.nodeRef(c, num)
		if err != nil {
			return err
		}
		targets = append(targets, next.ID)
		p.member(members, next.ID)
	}
	c.skipSpaces()
	if !c.eof() {
		return errSyntax(num, t)
	}
	for _, to := range targets {
		p.d.Edges = append(p.d.Edges, tmast.GraphEdge{From: from.ID, To: to, Kind: kind, Label: label})
	}
	return nil
}

// edgeDecoration parses the connector between two node refs: one of the
// symbolic forms (`-->`, `---`, `-.->`, `-.-`, `==>`, `===`) with an optional
// `|label|`, or the inline form `-- label -->` / `-- label ---`.
func edgeDecoration(c *cursor, num int) (kind tmast.EdgeKind, label string, ok bool, err error) {
	symbols := []struct {
		tok  string
		kind tmast.EdgeKind
	}{
		{"-.->", tmast.EdgeDottedArrow},
		{"-.-", tmast.EdgeDottedLink},
		{"==>", tmast.EdgeThickArrow},
		{"===", tmast.EdgeThickLink},
		{"-->", tmast.EdgeArrow},
		{"---", tmast.EdgeOpenLink},
	}
	for _, s := range symbols {
		if c.lit(s.tok) {
			if c.lit("|") {
				text, ok := c.until('|')
				if !ok || !c.lit("|") {
					return 0, "", false, errSyntax(num, c.s)
				}
				return s.kind, strings.TrimSpace(text), true, nil
			}
			return s.kind, "", true, nil
		}
	}
	if c.lit("-- ") {
		rest := c.rest()
		if i := strings.Index(rest, " -->"); i > 0 {
			c.i += i + len(" -->")
			return tmast.EdgeArrow, strings.TrimSpace(rest[:i]), true, nil
		}
		if i := strings.Index(rest, " ---"); i > 0 {
			c.i += i + len(" ---")
			return tmast.EdgeOpenLink, strings.TrimSpace(rest[:i]), true, nil
		}
		return 0, "", false, errSyntax(num, c.s)
	}
	return 0, "", false, nil
}

// nodeRef parses `id` with an optional shape label and registers the node.
func (p *graphParser) nodeRef(c *cursor, num int) (tmast.GraphNode, error) {
	id, ok := c.ident()
	if !ok {
		return tmast.GraphNode{}, errSyntax(num, c.s)
	}
	n := tmast.GraphNode{ID: id, Label: id, Shape: tmast.ShapeBox}

	var (
		label    string
		withCaps bool
	)
	switch {
	case c.lit("(("):
		label, ok = c.until(')')
		ok = ok && c.lit("))")
		n.Shape = tmast.ShapeCircle
		withCaps = ok
	case c.lit("("):
		label, ok = quotedInner(c, ')')
		ok = ok && c.lit(")")
		n.Shape = tmast.ShapeRound
		withCaps = ok
	case c.lit("{"):
		label, ok = quotedInner(c, '}')
		ok = ok && c.lit("}")
		n.Shape = tmast.ShapeDiamond
		withCaps = ok
	case c.lit("["):
		label, ok = quotedInner(c, ']')
		ok = ok && c.lit("]")
		n.Shape = tmast.ShapeBox
		withCaps = ok
	default:
		p.addNode(n, false)
		return n, nil
	}
	if !withCaps {
		return tmast.GraphNode{}, errSyntax(num, c.s)
	}
	n.Label = label
	p.addNode(n, true)
	return n, nil
}

// quotedInner reads a label delimited by closer, or a double-quoted label
// that may itself contain closer.
func quotedInner(c *cursor, closer byte) (string, bool) {
	if c.lit(`"`) {
		text, ok := c.until('"')
		if !ok || !c.lit(`"`) {
			return "", false
		}
		return text, true
	}
	return c.until(closer)
}

func (p *graphParser) addNode(n tmast.GraphNode, explicitLabel bool) {
	if i, seen := p.index[n.ID]; seen {
		if explicitLabel && !p.explicit[n.ID] {
			p.d.Nodes[i] = n
			p.explicit[n.ID] = true
		}
		return
	}
	p.index[n.ID] = len(p.d.Nodes)
	p.explicit[n.ID] = explicitLabel
	p.d.Nodes = append(p.d.Nodes, n)
}

func (p *graphParser) member(members *[]string, id string) {
	if members == nil {
		return
	}
	for _, m := range *members {
		if m == id {
			return
		}
	}
	*members = append(*members, id)
}
