// Package wikilink provides canonical parsing and scanning of Pyrite
// cross-reference link forms.
//
// Two forms exist:
//
//	[[target]] / [[target|display]]   wikilinks, used in prose
//	[display](target)                 markdown links, used in table cells
//
// Table cells cannot carry the wikilink alias form because its '|' would be
// read as a column delimiter; the fixer emits markdown links there instead.
// This package does not understand frontmatter or code fences; callers decide
// which regions to scan.
package wikilink

import (
	"fmt"
	"regexp"
	"strings"
)

// Match represents a link found in a string (typically a single line).
type Match struct {
	Target  string
	Display string // empty when the link has no display text
	Start   int
	End     int
	Literal string
}

// wikiRE matches [[target]] or [[target|display]]. The target cannot contain
// brackets or '|', which also keeps triple-bracket garbage from matching.
var wikiRE = regexp.MustCompile(`\[\[([^\]\[|]+)(?:\|([^\]\[]+))?\]\]`)

// mdRE matches [display](target) where neither side nests brackets.
var mdRE = regexp.MustCompile(`\[([^\]\[]+)\]\(([^)\s]+)\)`)

// ParseExact parses a string that is exactly a wikilink literal.
func ParseExact(s string) (target, display string, ok bool) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "[[") || !strings.HasSuffix(s, "]]") {
		return "", "", false
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(s, "[["), "]]")
	if strings.ContainsAny(inner, "[]") {
		return "", "", false
	}
	target, display, _ = strings.Cut(inner, "|")
	target = strings.TrimSpace(target)
	if target == "" {
		return "", "", false
	}
	return target, strings.TrimSpace(display), true
}

// FindAllInLine finds wikilinks in a single line. Matches preceded by '[' are
// skipped to avoid malformed triple-bracket forms.
func FindAllInLine(line string) []Match {
	var out []Match
	for _, m := range wikiRE.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]
		if start > 0 && line[start-1] == '[' {
			continue
		}

		target := strings.TrimSpace(line[m[2]:m[3]])
		if target == "" {
			continue
		}

		display := ""
		if m[4] >= 0 {
			display = strings.TrimSpace(line[m[4]:m[5]])
		}

		out = append(out, Match{
			Target:  target,
			Display: display,
			Start:   start,
			End:     end,
			Literal: line[start:end],
		})
	}
	return out
}

// FindAllMarkdownInLine finds [display](target) links in a single line.
// The returned Match's Target is the parenthesized path and Display the
// bracketed text.
func FindAllMarkdownInLine(line string) []Match {
	var out []Match
	for _, m := range mdRE.FindAllStringSubmatchIndex(line, -1) {
		start, end := m[0], m[1]
		// Skip the tail of a wikilink: "[[x]](y)" is malformed, not a link.
		if start > 0 && line[start-1] == '[' {
			continue
		}
		out = append(out, Match{
			Target:  line[m[4]:m[5]],
			Display: strings.TrimSpace(line[m[2]:m[3]]),
			Start:   start,
			End:     end,
			Literal: line[start:end],
		})
	}
	return out
}

// Wiki renders the prose link form.
func Wiki(target, display string) string {
	if display == "" || display == target {
		return fmt.Sprintf("[[%s]]", target)
	}
	return fmt.Sprintf("[[%s|%s]]", target, display)
}

// Markdown renders the table-cell link form.
func Markdown(display, target string) string {
	return fmt.Sprintf("[%s](%s)", display, target)
}
