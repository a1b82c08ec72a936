// Package tmparser turns diagram source text into tmast trees. The three
// grammars are line oriented: every statement fits on one line, and block
// constructs (sequence blocks, subgraphs, entity attribute lists) span lines
// terminated by a closing keyword. Errors carry the 1-based source line.
package tmparser

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

const errContextLimit = 40

func errSyntax(lineNum int, line string) error {
	ctx := strings.TrimSpace(line)
	if r := []rune(ctx); len(r) > errContextLimit {
		ctx = string(r[:errContextLimit]) + "..."
	}
	return fmt.Errorf("syntax error at line %d: unexpected `%s`", lineNum, ctx)
}

// splitSource splits input into lines, tolerating CRLF endings.
func splitSource(input string) []string {
	lines := strings.Split(input, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

func isIdentRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_'
}

// cursor scans within a single source line.
type cursor struct {
	s string
	i int
}

func (c *cursor) eof() bool {
	return c.i >= len(c.s)
}

func (c *cursor) rest() string {
	return c.s[c.i:]
}

func (c *cursor) skipSpaces() {
	for !c.eof() && (c.s[c.i] == ' ' || c.s[c.i] == '\t') {
		c.i++
	}
}

// lit consumes tok if the remaining input starts with it.
func (c *cursor) lit(tok string) bool {
	if strings.HasPrefix(c.rest(), tok) {
		c.i += len(tok)
		return true
	}
	return false
}

// ident consumes a run of letters, digits and underscores. extra widens the
// accepted set (ER names also allow '-').
func (c *cursor) ident(extra ...rune) (string, bool) {
	start := c.i
	for !c.eof() {
		r, size := utf8.DecodeRuneInString(c.rest())
		ok := isIdentRune(r)
		for _, e := range extra {
			ok = ok || r == e
		}
		if !ok {
			break
		}
		c.i += size
	}
	if c.i == start {
		return "", false
	}
	return c.s[start:c.i], true
}

// until consumes up to (not including) the next occurrence of stop and
// returns the non-empty text before it.
func (c *cursor) until(stop byte) (string, bool) {
	idx := strings.IndexByte(c.rest(), stop)
	if idx <= 0 {
		return "", false
	}
	text := c.rest()[:idx]
	c.i += idx
	return text, true
}

// lineScanner walks source lines, skipping nothing itself; callers decide
// what a blank or comment line means in their grammar.
type lineScanner struct {
	lines []string
	pos   int
}

func newLineScanner(input string) *lineScanner {
	return &lineScanner{lines: splitSource(input)}
}

// next returns the next raw line and its 1-based number.
func (s *lineScanner) next() (line string, num int, ok bool) {
	if s.pos >= len(s.lines) {
		return "", 0, false
	}
	line = s.lines[s.pos]
	s.pos++
	return line, s.pos, true
}

func skippable(trimmed string) bool {
	return trimmed == "" || strings.HasPrefix(trimmed, "%%")
}

// header consumes leading blank and comment lines, then requires a line whose
// first word is one of the given keywords. It returns the header cursor
// positioned after the keyword.
func (s *lineScanner) header(keywords ...string) (*cursor, int, error) {
	for {
		line, num, ok := s.next()
		if !ok {
			return nil, 0, fmt.Errorf("syntax error: missing `%s` header", keywords[0])
		}
		t := strings.TrimSpace(line)
		if skippable(t) {
			continue
		}
		for _, kw := range keywords {
			c := &cursor{s: t}
			if c.lit(kw) && (c.eof() || c.s[c.i] == ' ' || c.s[c.i] == '\t') {
				return c, num, nil
			}
		}
		return nil, 0, errSyntax(num, line)
	}
}
