// Package check handles corpus-wide validation.
package check

import (
	"fmt"

	"github.com/pyritehq/pyrite/internal/parser"
)

// Severity indicates how serious a violation is. Errors fail a check run;
// warnings and info findings do not.
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
	SeverityInfo
)

func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "ERROR"
	case SeverityWarning:
		return "WARN"
	default:
		return "INFO"
	}
}

// Category is a stable machine-readable violation type.
type Category string

const (
	InvalidFolderName  Category = "invalid-folder-name"
	InvalidIndexName   Category = "invalid-index-name"
	MissingIndexFile   Category = "missing-index-file"
	IDMismatch         Category = "id-mismatch"
	MissingField       Category = "missing-field"
	InvalidFieldValue  Category = "invalid-field-value"
	InvalidTicketName  Category = "invalid-ticket-name"
	TicketDateMismatch Category = "ticket-date-mismatch"
	DuplicateID        Category = "duplicate-id"
	BrokenLink         Category = "broken-link"
	MiscasedLink       Category = "miscased-link"
	CaseCollision      Category = "case-collision"
	Orphan             Category = "orphan"
	UnlinkedMention    Category = "unlinked-mention"
	FrontmatterLink    Category = "frontmatter-link"
	MissingParentLink  Category = "missing-parent-link"
	LegacyID           Category = "legacy-id"
	FileError          Category = "file-error"
)

// Violation is one validation finding. Fixable violations carry enough in
// Expected (and the position fields) for the fixer to act without re-deriving
// anything.
type Violation struct {
	Category Category
	Severity Severity
	Path     string // relative to the corpus root
	Line     int    // 1-indexed, 0 when the finding is file-level
	Message  string

	// Actual and Expected are the offending and repaired values: filenames
	// for renames, identifier strings for id rewrites and mention upgrades.
	Actual   string
	Expected string

	// Loc distinguishes prose, table-cell, and frontmatter findings, which
	// repair differently.
	Loc parser.Location

	// Start and End are byte offsets within the line for mention upgrades.
	Start int
	End   int

	Fixable bool
}

func (v Violation) String() string {
	if v.Line > 0 {
		return fmt.Sprintf("%s %s:%d %s", v.Severity, v.Path, v.Line, v.Message)
	}
	return fmt.Sprintf("%s %s %s", v.Severity, v.Path, v.Message)
}

// Count tallies violations at a given severity.
func Count(violations []Violation, sev Severity) int {
	n := 0
	for _, v := range violations {
		if v.Severity == sev {
			n++
		}
	}
	return n
}
