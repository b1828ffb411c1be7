// Package dates parses the calendar dates pyrite documents carry in
// frontmatter, most importantly the created field.
package dates

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

var dateRE = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate reports whether s is a real YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	_, err := ParseDate(s)
	return err == nil
}

// ParseDate parses a YYYY-MM-DD date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !dateRE.MatchString(s) {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date: %q", s)
	}
	return t, nil
}

// Format renders t as the canonical frontmatter date form.
func Format(t time.Time) string {
	return t.Format("2006-01-02")
}
