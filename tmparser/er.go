package tmparser

import (
	"fmt"
	"strings"

	"github.com/termaid/termaid/tmast"
)

// ParseER parses an erDiagram source into its AST. Entities are deduplicated
// in first-seen order; an attribute block attaches to an already-seen entity.
func ParseER(input string) (*tmast.ERDiagram, error) {
	p := &erParser{
		lineScanner: newLineScanner(input),
		d:           &tmast.ERDiagram{},
		index:       map[string]int{},
	}
	c, num, err := p.header("erDiagram")
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	if !c.eof() {
		return nil, errSyntax(num, c.s)
	}

	for {
		line, num, ok := p.next()
		if !ok {
			return p.d, nil
		}
		t := strings.TrimSpace(line)
		if skippable(t) {
			continue
		}
		if err := p.parseLine(t, num); err != nil {
			return nil, err
		}
	}
}

type erParser struct {
	*lineScanner
	d     *tmast.ERDiagram
	index map[string]int
}

func (p *erParser) parseLine(t string, num int) error {
	c := &cursor{s: t}
	name, ok := c.ident('-')
	if !ok {
		return errSyntax(num, t)
	}
	c.skipSpaces()
	if c.lit("{") {
		c.skipSpaces()
		if !c.eof() {
			return errSyntax(num, t)
		}
		return p.parseAttributeBlock(name, num)
	}
	return p.parseRelationship(name, c, num)
}

func (p *erParser) parseAttributeBlock(name string, openLine int) error {
	var attrs []tmast.EntityAttribute
	for {
		line, num, ok := p.next()
		if !ok {
			return fmt.Errorf("syntax error at line %d: entity `%s` is missing `}`", openLine, name)
		}
		t := strings.TrimSpace(line)
		if skippable(t) {
			continue
		}
		if t == "}" {
			p.setAttributes(name, attrs)
			return nil
		}
		attr, err := parseAttribute(t, num)
		if err != nil {
			return err
		}
		attrs = append(attrs, attr)
	}
}

func parseAttribute(t string, num int) (tmast.EntityAttribute, error) {
	c := &cursor{s: t}
	typ, ok := c.ident('-')
	if !ok {
		return tmast.EntityAttribute{}, errSyntax(num, t)
	}
	c.skipSpaces()
	name, ok := c.ident('-')
	if !ok {
		return tmast.EntityAttribute{}, errSyntax(num, t)
	}
	attr := tmast.EntityAttribute{Type: typ, Name: name}
	c.skipSpaces()
	if !c.eof() {
		key, ok := c.ident('-')
		if !ok {
			return tmast.EntityAttribute{}, errSyntax(num, t)
		}
		attr.Key = key
		c.skipSpaces()
		if !c.eof() {
			return tmast.EntityAttribute{}, errSyntax(num, t)
		}
	}
	return attr, nil
}

func (p *erParser) parseRelationship(from string, c *cursor, num int) error {
	left, right, ok := parseCardinalities(c)
	if !ok {
		return errSyntax(num, c.s)
	}
	c.skipSpaces()
	to, ok := c.ident('-')
	if !ok {
		return errSyntax(num, c.s)
	}
	c.skipSpaces()
	if !c.lit(":") {
		return errSyntax(num, c.s)
	}
	label := strings.TrimSpace(c.rest())
	if label == "" {
		return errSyntax(num, c.s)
	}
	p.addEntity(from)
	p.addEntity(to)
	p.d.Relationships = append(p.d.Relationships, tmast.Relationship{
		From:      from,
		To:        to,
		LeftCard:  left,
		RightCard: right,
		Label:     label,
	})
	return nil
}

// parseCardinalities reads `<left>--<right>` where each side is drawn from
// the crow's-foot symbol set. Unrecognized combinations fall back to
// exactly-one.
func parseCardinalities(c *cursor) (left, right tmast.Cardinality, ok bool) {
	leftStr, ok := c.cardSymbols()
	if !ok || !c.lit("--") {
		return 0, 0, false
	}
	rightStr, ok := c.cardSymbols()
	if !ok {
		return 0, 0, false
	}
	return leftCardinality(leftStr), rightCardinality(rightStr), true
}

func (c *cursor) cardSymbols() (string, bool) {
	start := c.i
	for !c.eof() && strings.IndexByte("|o{}", c.s[c.i]) >= 0 {
		c.i++
	}
	if c.i == start {
		return "", false
	}
	return c.s[start:c.i], true
}

func leftCardinality(s string) tmast.Cardinality {
	switch s {
	case "||":
		return tmast.ExactlyOne
	case "o|":
		return tmast.ZeroOrOne
	case "}|":
		return tmast.OneOrMany
	case "}o":
		return tmast.ZeroOrMany
	}
	return tmast.ExactlyOne
}

func rightCardinality(s string) tmast.Cardinality {
	switch s {
	case "||":
		return tmast.ExactlyOne
	case "|o":
		return tmast.ZeroOrOne
	case "|{":
		return tmast.OneOrMany
	case "o{":
		return tmast.ZeroOrMany
	}
	return tmast.ExactlyOne
}

func (p *erParser) addEntity(name string) {
	if _, seen := p.index[name]; seen {
		return
	}
	p.index[name] = len(p.d.Entities)
	p.d.Entities = append(p.d.Entities, tmast.Entity{Name: name})
}

func (p *erParser) setAttributes(name string, attrs []tmast.EntityAttribute) {
	p.addEntity(name)
	p.d.Entities[p.index[name]].Attributes = attrs
}
