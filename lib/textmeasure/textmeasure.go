// Package textmeasure measures text in terminal columns. Every sizing
// computation in the layout engines goes through it, so the rules live in one
// place: East-Asian wide runes count as 2 columns, zero-width combining marks
// as 0, everything else as 1.
package textmeasure

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// StringWidth returns the number of terminal columns s occupies.
func StringWidth(s string) int {
	return runewidth.StringWidth(s)
}

// RuneWidth returns the number of terminal columns r occupies.
func RuneWidth(r rune) int {
	return runewidth.RuneWidth(r)
}

// brTags are the line break spellings recognized inside labels, matched
// case-insensitively.
var brTags = []string{"<br/>", "<br />", "<br>"}

// SplitLines splits s on <br/>, <br /> and <br> tags. Text without a break
// tag comes back as a single-element slice.
func SplitLines(s string) []string {
	lower := strings.ToLower(s)
	var lines []string
	start := 0
	for i := 0; i < len(lower); {
		matched := 0
		for _, tag := range brTags {
			if strings.HasPrefix(lower[i:], tag) {
				matched = len(tag)
				break
			}
		}
		if matched > 0 {
			lines = append(lines, s[start:i])
			i += matched
			start = i
			continue
		}
		i++
	}
	return append(lines, s[start:])
}

// MultilineWidth returns the widest line of s after break-tag splitting.
func MultilineWidth(s string) int {
	w := 0
	for _, line := range SplitLines(s) {
		w = max(w, StringWidth(line))
	}
	return w
}

// LineCount returns the number of lines s renders as.
func LineCount(s string) int {
	return len(SplitLines(s))
}

// TruncateOne removes the last grapheme cluster of s (not counting a trailing
// ellipsis from an earlier truncation) and appends an ellipsis. It reports
// false when s cannot shrink any further, i.e. the result would fall below 2
// display columns.
func TruncateOne(s string) (string, bool) {
	s = strings.TrimSuffix(s, "…")
	var clusters []string
	gr := uniseg.NewGraphemes(s)
	for gr.Next() {
		clusters = append(clusters, gr.Str())
	}
	if len(clusters) < 2 {
		return s, false
	}
	truncated := strings.Join(clusters[:len(clusters)-1], "") + "…"
	if StringWidth(truncated) < 2 {
		return s, false
	}
	return truncated, true
}
