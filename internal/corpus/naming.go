package corpus

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/pyritehq/pyrite/internal/ident"
)

// Filesystem naming grammar: kind prefix, date/suffix, then a sanitized
// lowercase-underscore description.
var (
	weFolderRE     = regexp.MustCompile(`^WE-\d{6}-[a-z0-9]{4}_[a-z0-9_]+$`)
	ticketFileRE   = regexp.MustCompile(`^TKT-\d{6}-\d{3}_[a-z0-9_]+\.md$`)
	legacyTicketRE = regexp.MustCompile(`^TKT-[a-z0-9]{4}-\d{3}_[a-z0-9_]+\.md$`)
	ticketPartsRE  = regexp.MustCompile(`-(\d{3})_(.+)\.md$`)
)

// ValidFolderName reports whether a work-effort folder name is conformant.
func ValidFolderName(name string) bool {
	return weFolderRE.MatchString(name)
}

// ValidTicketName reports whether a ticket filename matches the canonical
// grammar. Legacy-suffix names fail this but match LegacyTicketName.
func ValidTicketName(name string) bool {
	return ticketFileRE.MatchString(name)
}

// LegacyTicketName reports whether a ticket filename uses the retired
// suffix-keyed grammar.
func LegacyTicketName(name string) bool {
	return legacyTicketRE.MatchString(name)
}

// FolderID extracts the identifier from a folder or file name: the prefix
// before the first underscore.
func FolderID(name string) (ident.ID, bool) {
	prefix := name
	if i := strings.Index(name, "_"); i >= 0 {
		prefix = name[:i]
	}
	id, err := ident.Parse(prefix)
	if err != nil {
		return ident.ID{}, false
	}
	return id, true
}

// FolderName builds the expected folder name for a work effort.
func FolderName(id ident.ID, desc string) string {
	return fmt.Sprintf("%s_%s", id, desc)
}

// IndexName builds the expected index filename for a work effort.
func IndexName(id ident.ID) string {
	return fmt.Sprintf("%s_index.md", id)
}

// TicketName builds the expected filename for a ticket.
func TicketName(id ident.ID, desc string) string {
	return fmt.Sprintf("%s_%s.md", id, desc)
}

// TicketParts recovers the sequence and description from a ticket filename,
// canonical or legacy. Used to rebuild the expected name when the date
// component is wrong.
func TicketParts(name string) (seq, desc string, ok bool) {
	m := ticketPartsRE.FindStringSubmatch(name)
	if m == nil {
		return "", "", false
	}
	return m[1], m[2], true
}
