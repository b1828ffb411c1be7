// Package ident provides canonical parsing, validation, and generation of
// Pyrite work-tracking identifiers.
//
// Identifier grammar:
//
//	WE-YYMMDD-xxxx    work effort (date + 4 lowercase base36 chars)
//	TKT-YYMMDD-NNN    ticket (parent work effort's date + 3-digit sequence)
//	TKT-xxxx-NNN      ticket, legacy form (parent suffix + sequence)
//	CKPT-YYMMDD-HHMM  checkpoint (date + wall-clock time)
//
// The legacy ticket form is accepted by Parse but never produced by the
// generators; new tickets are always keyed by the parent's date.
//
// Suffixes are stored lowercase. Parse accepts any case and normalizes so
// that reference resolution can be case-insensitive; Validate enforces the
// strict lowercase storage form.
package ident

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Kind identifies which grammar an identifier belongs to.
type Kind int

const (
	KindNone Kind = iota
	KindWorkEffort
	KindTicket
	KindCheckpoint
)

func (k Kind) String() string {
	switch k {
	case KindWorkEffort:
		return "work-effort"
	case KindTicket:
		return "ticket"
	case KindCheckpoint:
		return "checkpoint"
	default:
		return "none"
	}
}

// DateLayout is the six-digit date component layout (YYMMDD).
const DateLayout = "060102"

// ClockLayout is the checkpoint time component layout (HHMM).
const ClockLayout = "1504"

// ErrNotAnIdentifier is returned by Parse when the input matches no grammar.
var ErrNotAnIdentifier = errors.New("not a recognized identifier")

var (
	workEffortRE   = regexp.MustCompile(`(?i)^WE-(\d{6})-([a-z0-9]{4})$`)
	ticketRE       = regexp.MustCompile(`(?i)^TKT-(\d{6})-(\d{3})$`)
	legacyTicketRE = regexp.MustCompile(`(?i)^TKT-([a-z0-9]{4})-(\d{3})$`)
	checkpointRE   = regexp.MustCompile(`(?i)^CKPT-(\d{6})-(\d{4})$`)
	strictWERE     = regexp.MustCompile(`^WE-\d{6}-[a-z0-9]{4}$`)
	strictTicketRE = regexp.MustCompile(`^TKT-\d{6}-\d{3}$`)
	strictLegacyRE = regexp.MustCompile(`^TKT-[a-z0-9]{4}-\d{3}$`)
	strictCkptRE   = regexp.MustCompile(`^CKPT-\d{6}-\d{4}$`)
)

// ID is a parsed identifier.
type ID struct {
	Kind Kind

	// Date is the embedded calendar date. Zero for legacy tickets.
	Date time.Time

	// Suffix is the 4-char base36 component, lowercase. Set for work efforts
	// and legacy tickets.
	Suffix string

	// Seq is the ticket sequence number (1-based). Zero for other kinds.
	Seq int

	// Clock is the checkpoint HHMM component. Empty for other kinds.
	Clock string

	// Legacy reports whether this is the legacy suffix-keyed ticket form.
	Legacy bool
}

// String renders the identifier in its canonical (lowercase) storage form.
func (id ID) String() string {
	switch id.Kind {
	case KindWorkEffort:
		return fmt.Sprintf("WE-%s-%s", id.Date.Format(DateLayout), id.Suffix)
	case KindTicket:
		if id.Legacy {
			return fmt.Sprintf("TKT-%s-%03d", id.Suffix, id.Seq)
		}
		return fmt.Sprintf("TKT-%s-%03d", id.Date.Format(DateLayout), id.Seq)
	case KindCheckpoint:
		return fmt.Sprintf("CKPT-%s-%s", id.Date.Format(DateLayout), id.Clock)
	default:
		return ""
	}
}

// DatePart returns the six-digit date component, or "" if the identifier
// carries no date.
func (id ID) DatePart() string {
	if id.Date.IsZero() {
		return ""
	}
	return id.Date.Format(DateLayout)
}

// Parse recognizes an identifier, trying each grammar in a fixed order:
// work effort, ticket, legacy ticket, checkpoint. Inputs whose date component
// is not a real calendar date are rejected.
func Parse(s string) (ID, error) {
	s = strings.TrimSpace(s)

	if m := workEffortRE.FindStringSubmatch(s); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return ID{}, err
		}
		return ID{Kind: KindWorkEffort, Date: date, Suffix: strings.ToLower(m[2])}, nil
	}

	if m := ticketRE.FindStringSubmatch(s); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return ID{}, err
		}
		seq, _ := strconv.Atoi(m[2])
		return ID{Kind: KindTicket, Date: date, Seq: seq}, nil
	}

	if m := legacyTicketRE.FindStringSubmatch(s); m != nil {
		seq, _ := strconv.Atoi(m[2])
		return ID{Kind: KindTicket, Suffix: strings.ToLower(m[1]), Seq: seq, Legacy: true}, nil
	}

	if m := checkpointRE.FindStringSubmatch(s); m != nil {
		date, err := parseDate(m[1])
		if err != nil {
			return ID{}, err
		}
		if _, err := time.Parse(ClockLayout, m[2]); err != nil {
			return ID{}, fmt.Errorf("checkpoint %q: invalid time component %q", s, m[2])
		}
		return ID{Kind: KindCheckpoint, Date: date, Clock: m[2]}, nil
	}

	return ID{}, fmt.Errorf("%q: %w", s, ErrNotAnIdentifier)
}

// Validate performs a grammar-only check of the strict storage form,
// independent of corpus state. kind selects which grammar must match;
// KindNone accepts any of them.
func Validate(s string, kind Kind) error {
	var ok bool
	switch kind {
	case KindWorkEffort:
		ok = strictWERE.MatchString(s)
	case KindTicket:
		ok = strictTicketRE.MatchString(s) || strictLegacyRE.MatchString(s)
	case KindCheckpoint:
		ok = strictCkptRE.MatchString(s)
	case KindNone:
		ok = strictWERE.MatchString(s) || strictTicketRE.MatchString(s) ||
			strictLegacyRE.MatchString(s) || strictCkptRE.MatchString(s)
	}
	if !ok {
		return fmt.Errorf("%q does not match the %s grammar", s, kind)
	}
	// The regexes accept any six digits; the date still has to exist.
	if _, err := Parse(s); err != nil {
		return err
	}
	return nil
}

// Normalize lowercases an identifier's suffix component, returning the
// canonical storage form. Non-identifiers are returned unchanged.
func Normalize(s string) string {
	id, err := Parse(s)
	if err != nil {
		return s
	}
	return id.String()
}

func parseDate(s string) (time.Time, error) {
	date, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date component %q: %w", s, err)
	}
	return date, nil
}
