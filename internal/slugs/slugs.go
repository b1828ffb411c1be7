// Package slugs provides the canonical description-component slug used in
// Pyrite folder and file names.
//
// Corpus convention is lowercase with underscores: "Fix Login Bug!" becomes
// "fix_login_bug". Slugging is built on gosimple/slug (which handles unicode
// transliteration) with dashes mapped to underscores afterwards.
package slugs

import (
	"strings"

	goslug "github.com/gosimple/slug"
)

// MaxDescriptionLen bounds the description component of generated names.
const MaxDescriptionLen = 50

// Description converts free text to a lowercase-underscore filename component.
func Description(text string) string {
	s := goslug.Make(text)
	s = strings.ReplaceAll(s, "-", "_")
	if len(s) > MaxDescriptionLen {
		s = strings.TrimRight(s[:MaxDescriptionLen], "_")
	}
	return s
}

// IsDescription reports whether s is already a valid description component.
func IsDescription(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return !strings.HasPrefix(s, "_") && !strings.HasSuffix(s, "_")
}
