package ident

import "regexp"

// Mention is an identifier occurrence found in a string (typically one line).
type Mention struct {
	ID      ID
	Start   int
	End     int
	Literal string
}

// mentionRE matches any identifier-shaped token. Case-insensitive so that
// miscased references are still found; Parse normalizes them afterwards.
// Canonical ticket alternation comes before the legacy one so the six-digit
// middle wins.
var mentionRE = regexp.MustCompile(
	`(?i)\b(WE-\d{6}-[a-z0-9]{4}|TKT-\d{6}-\d{3}|TKT-[a-z0-9]{4}-\d{3}|CKPT-\d{6}-\d{4})\b`)

// FindAllInLine finds identifier mentions in a single line. Tokens whose date
// component is not a real calendar date are skipped.
func FindAllInLine(line string) []Mention {
	var out []Mention
	for _, m := range mentionRE.FindAllStringIndex(line, -1) {
		literal := line[m[0]:m[1]]
		id, err := Parse(literal)
		if err != nil {
			continue
		}
		out = append(out, Mention{ID: id, Start: m[0], End: m[1], Literal: literal})
	}
	return out
}
