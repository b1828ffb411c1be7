package ui

import (
	"regexp"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
// - Default (white/black): primary text
// - Accent (amber #D4A017, pyrite's color): paths, identifiers, highlights
// - Muted (gray): secondary info, line numbers
// - No colored success/error/warning - unicode symbols only

var (
	// Accent style for file paths, identifiers, highlights
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4A017"))

	// Muted style for secondary info, hints, line numbers
	Muted = lipgloss.NewStyle().Foreground(lipgloss.Color("#6C7086"))

	// Bold style for emphasis
	Bold = lipgloss.NewStyle().Bold(true)
)

// accentColor is the configured accent override, empty when unset.
var accentColor string

// codeTheme is the configured chroma theme for fenced code blocks, empty
// when unset.
var codeTheme string

var (
	ansiColorRE = regexp.MustCompile(`^(\d{1,3})$`)
	hexColorRE  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// ConfigureTheme applies the configured accent color and code theme to the
// shared styles. Invalid accent values are ignored and the defaults kept.
func ConfigureTheme(accent, code string) {
	if code != "" {
		codeTheme = code
	}
	color, ok := normalizeAccentColor(accent)
	if !ok {
		return
	}
	accentColor = color
	Accent = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
}

// AccentColor returns the configured accent color, if any.
func AccentColor() (string, bool) {
	return accentColor, accentColor != ""
}

// CodeTheme returns the configured chroma theme, if any.
func CodeTheme() (string, bool) {
	return codeTheme, codeTheme != ""
}

// normalizeAccentColor validates an accent value: ANSI color codes 0-255 or
// hex #RRGGBB.
func normalizeAccentColor(s string) (string, bool) {
	if hexColorRE.MatchString(s) {
		return s, true
	}
	if m := ansiColorRE.FindStringSubmatch(s); m != nil {
		if len(m[1]) <= 3 && atoiSafe(m[1]) <= 255 {
			return m[1], true
		}
	}
	return "", false
}

func atoiSafe(s string) int {
	n := 0
	for _, c := range s {
		n = n*10 + int(c-'0')
	}
	return n
}
