package ui

import (
	"fmt"

	"github.com/pyritehq/pyrite/internal/check"
)

// Unicode symbols for status indicators
const (
	SymbolSuccess = "✓"
	SymbolError   = "✗"
	SymbolWarning = "⚠"
	SymbolInfo    = "ℹ"
)

// Success returns a success message with checkmark symbol
func Success(msg string) string {
	return fmt.Sprintf("%s %s", SymbolSuccess, msg)
}

// Successf returns a formatted success message with checkmark symbol
func Successf(format string, args ...interface{}) string {
	return Success(fmt.Sprintf(format, args...))
}

// Errorf returns a formatted error message with X symbol
func Errorf(format string, args ...interface{}) string {
	return fmt.Sprintf("%s %s", SymbolError, fmt.Sprintf(format, args...))
}

// SeveritySymbol returns the indicator for a violation severity.
func SeveritySymbol(sev check.Severity) string {
	switch sev {
	case check.SeverityError:
		return SymbolError
	case check.SeverityWarning:
		return SymbolWarning
	default:
		return SymbolInfo
	}
}

// Violation renders one validation finding for terminal output.
func Violation(v check.Violation) string {
	location := FilePath(v.Path)
	if v.Line > 0 {
		location += Muted.Render(fmt.Sprintf(":%d", v.Line))
	}
	tag := Muted.Render(fmt.Sprintf("[%s]", v.Category))
	return fmt.Sprintf("%s %s %s %s", SeveritySymbol(v.Severity), location, v.Message, tag)
}

// FilePath returns an accent-styled file path
func FilePath(path string) string {
	return Accent.Render(path)
}

// Hint returns muted hint text
func Hint(msg string) string {
	return Muted.Render(msg)
}

// Header returns a styled section header
func Header(msg string) string {
	return Bold.Render(msg)
}

// Summary returns a count line like "3 errors, 2 warnings, 1 info".
func Summary(errors, warnings, infos int) string {
	return fmt.Sprintf("%d %s, %d %s, %d info",
		errors, pluralize("error", errors),
		warnings, pluralize("warning", warnings),
		infos)
}

func pluralize(singular string, count int) string {
	if count == 1 {
		return singular
	}
	return singular + "s"
}
