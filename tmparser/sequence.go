package tmparser

import (
	"fmt"
	"strings"

	"github.com/termaid/termaid/tmast"
)

// ParseSequence parses a sequenceDiagram source into its AST.
func ParseSequence(input string) (*tmast.SequenceDiagram, error) {
	p := &sequenceParser{lineScanner: newLineScanner(input)}
	c, num, err := p.header("sequenceDiagram")
	if err != nil {
		return nil, err
	}
	c.skipSpaces()
	if !c.eof() {
		return nil, errSyntax(num, c.s)
	}

	var stmts []tmast.SequenceStatement
	for {
		line, num, ok := p.next()
		if !ok {
			break
		}
		t := strings.TrimSpace(line)
		if skippable(t) {
			continue
		}
		if t == "end" {
			return nil, errSyntax(num, line)
		}
		st, err := p.parseStatement(t, num)
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, st)
	}
	return &tmast.SequenceDiagram{Statements: stmts}, nil
}

type sequenceParser struct {
	*lineScanner
}

func (p *sequenceParser) parseStatement(t string, num int) (tmast.SequenceStatement, error) {
	word, rest := splitKeyword(t)
	switch word {
	case "participant", "actor":
		return parseParticipantDecl(rest, num)
	case "create":
		w2, rest2 := splitKeyword(rest)
		if w2 != "participant" && w2 != "actor" {
			return nil, errSyntax(num, t)
		}
		return parseParticipantDecl(rest2, num)
	case "destroy", "activate", "deactivate":
		id, ok := onlyIdent(rest)
		if !ok {
			return nil, errSyntax(num, t)
		}
		switch word {
		case "destroy":
			return tmast.Destroy{ID: id}, nil
		case "activate":
			return tmast.Activate{ID: id}, nil
		default:
			return tmast.Deactivate{ID: id}, nil
		}
	case "autonumber":
		if rest != "" {
			return nil, errSyntax(num, t)
		}
		return tmast.AutoNumber{}, nil
	case "Note":
		return parseNote(rest, num)
	case "loop", "opt", "break", "rect", "alt", "par", "critical":
		kind := blockKinds[word]
		if rest == "" && word != "rect" {
			return nil, errSyntax(num, t)
		}
		body, branches, err := p.parseBlockBody(kind, num)
		if err != nil {
			return nil, err
		}
		return tmast.Block{Kind: kind, Label: rest, Body: body, Branches: branches}, nil
	}
	return parseMessage(t, num)
}

var blockKinds = map[string]tmast.BlockKind{
	"loop":     tmast.BlockLoop,
	"opt":      tmast.BlockOpt,
	"break":    tmast.BlockBreak,
	"rect":     tmast.BlockRect,
	"alt":      tmast.BlockAlt,
	"par":      tmast.BlockPar,
	"critical": tmast.BlockCritical,
}

// parseBlockBody consumes statements up to the block's `end`, splitting into
// divider branches for alt/par/critical.
func (p *sequenceParser) parseBlockBody(kind tmast.BlockKind, openLine int) (body []tmast.SequenceStatement, branches []tmast.Branch, err error) {
	divider := kind.DividerKeyword()
	appendStmt := func(st tmast.SequenceStatement) {
		if len(branches) > 0 {
			branches[len(branches)-1].Body = append(branches[len(branches)-1].Body, st)
		} else {
			body = append(body, st)
		}
	}
	for {
		line, num, ok := p.next()
		if !ok {
			return nil, nil, fmt.Errorf("syntax error at line %d: `%s` block is missing `end`", openLine, kind.Keyword())
		}
		t := strings.TrimSpace(line)
		if skippable(t) {
			continue
		}
		if t == "end" {
			return body, branches, nil
		}
		if divider != "" {
			if w, rest := splitKeyword(t); w == divider {
				branches = append(branches, tmast.Branch{Label: rest})
				continue
			}
		}
		st, err := p.parseStatement(t, num)
		if err != nil {
			return nil, nil, err
		}
		appendStmt(st)
	}
}

func parseParticipantDecl(rest string, num int) (tmast.SequenceStatement, error) {
	c := &cursor{s: rest}
	id, ok := c.ident()
	if !ok {
		return nil, errSyntax(num, rest)
	}
	c.skipSpaces()
	decl := tmast.ParticipantDecl{ID: id}
	if !c.eof() {
		if !c.lit("as ") {
			return nil, errSyntax(num, rest)
		}
		decl.Alias = strings.TrimSpace(c.rest())
		if decl.Alias == "" {
			return nil, errSyntax(num, rest)
		}
	}
	return decl, nil
}

func parseNote(rest string, num int) (tmast.SequenceStatement, error) {
	c := &cursor{s: rest}
	n := tmast.Note{}
	switch {
	case c.lit("right of "):
		n.Placement = tmast.NoteRightOf
	case c.lit("left of "):
		n.Placement = tmast.NoteLeftOf
	case c.lit("over "):
		n.Placement = tmast.NoteOver
	default:
		return nil, errSyntax(num, rest)
	}
	c.skipSpaces()
	id, ok := c.ident()
	if !ok {
		return nil, errSyntax(num, rest)
	}
	n.Anchor = id
	if n.Placement == tmast.NoteOver && c.lit(",") {
		c.skipSpaces()
		id2, ok := c.ident()
		if !ok {
			return nil, errSyntax(num, rest)
		}
		n.Placement = tmast.NoteOverTwo
		n.Anchor2 = id2
	}
	c.skipSpaces()
	if !c.lit(":") {
		return nil, errSyntax(num, rest)
	}
	n.Text = strings.TrimSpace(c.rest())
	return n, nil
}

func parseMessage(t string, num int) (tmast.SequenceStatement, error) {
	c := &cursor{s: t}
	from, ok := c.ident()
	if !ok {
		return nil, errSyntax(num, t)
	}
	c.skipSpaces()

	m := tmast.Message{From: from}
	switch {
	case c.lit("--"):
		m.Arrow.Line = tmast.LineDotted
	case c.lit("-"):
		m.Arrow.Line = tmast.LineSolid
	default:
		return nil, errSyntax(num, t)
	}
	switch {
	case c.lit(">>"):
		m.Arrow.Head = tmast.HeadArrow
	case c.lit(">"):
		m.Arrow.Head = tmast.HeadNone
	case c.lit("x"):
		m.Arrow.Head = tmast.HeadCross
	case c.lit(")"):
		m.Arrow.Head = tmast.HeadOpen
	default:
		return nil, errSyntax(num, t)
	}
	switch {
	case c.lit("+"):
		m.ActivateTarget = true
	case c.lit("-"):
		m.DeactivateSource = true
	}
	c.skipSpaces()
	to, ok := c.ident()
	if !ok {
		return nil, errSyntax(num, t)
	}
	m.To = to
	c.skipSpaces()
	if !c.lit(":") {
		return nil, errSyntax(num, t)
	}
	m.Text = strings.TrimSpace(c.rest())
	return m, nil
}

// splitKeyword splits a trimmed line into its first whitespace-delimited word
// and the trimmed remainder.
func splitKeyword(t string) (word, rest string) {
	if i := strings.IndexAny(t, " \t"); i >= 0 {
		return t[:i], strings.TrimSpace(t[i+1:])
	}
	return t, ""
}

// onlyIdent parses s as a single identifier with nothing after it.
func onlyIdent(s string) (string, bool) {
	c := &cursor{s: s}
	id, ok := c.ident()
	if !ok {
		return "", false
	}
	c.skipSpaces()
	if !c.eof() {
		return "", false
	}
	return id, true
}
