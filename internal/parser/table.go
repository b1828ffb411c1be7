package parser

import "strings"

// separatorRow reports whether a line is a markdown table header separator:
// pipe-delimited cells of dashes with optional alignment colons.
func separatorRow(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.Contains(trimmed, "|") || !strings.Contains(trimmed, "---") {
		return false
	}
	trimmed = strings.Trim(trimmed, "|")
	for _, cell := range strings.Split(trimmed, "|") {
		cell = strings.TrimSpace(cell)
		if cell == "" {
			return false
		}
		body := strings.TrimSuffix(strings.TrimPrefix(cell, ":"), ":")
		if len(body) < 3 || strings.Count(body, "-") != len(body) {
			return false
		}
	}
	return true
}

// TableLines classifies each line of a body as inside a markdown table.
// A table opens at a header row whose next line is a separator row, and
// extends through consecutive lines containing a pipe.
func TableLines(lines []string) []bool {
	out := make([]bool, len(lines))
	inTable := false
	for i, line := range lines {
		if inTable {
			if strings.Contains(line, "|") {
				out[i] = true
				continue
			}
			inTable = false
		}
		if separatorRow(line) && i > 0 && strings.Contains(lines[i-1], "|") && !out[i-1] {
			out[i-1] = true
			out[i] = true
			inTable = true
		}
	}
	return out
}
