package check

import (
	"strings"
	"testing"

	"github.com/pyritehq/pyrite/internal/corpus"
	"github.com/pyritehq/pyrite/internal/testutil"
)

func validate(t *testing.T, c *testutil.TestCorpus) []Violation {
	t.Helper()
	ix, err := corpus.Build(c.Path, corpus.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return NewValidator(ix, Options{}).Run()
}

func byCategory(violations []Violation, cat Category) []Violation {
	var out []Violation
	for _, v := range violations {
		if v.Category == cat {
			out = append(out, v)
		}
	}
	return out
}

func cleanCorpus(t *testing.T) *testutil.TestCorpus {
	t.Helper()
	return testutil.NewTestCorpus(t).
		WithFile("README.md", "# Corpus\n\nSee [[guide]] and [[WE-260101-a1b2]].\n").
		WithFile("_docs/guide.md", "# Guide\n").
		WithWorkEffort("WE-260101-a1b2", "auth", "Auth").
		WithTicket("WE-260101-a1b2", "auth", "TKT-260101-001", "fix_login", "").
		// Link the ticket from the index so it is not an orphan.
		WithFile("_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md",
			"---\nid: WE-260101-a1b2\ntitle: Auth\nstatus: active\ncreated: 2026-01-01\n---\n# Auth\n\nTracks [[TKT-260101-001]].\n")
}

func TestCleanCorpusHasNoViolations(t *testing.T) {
	violations := validate(t, cleanCorpus(t).Build())
	if len(violations) != 0 {
		t.Errorf("clean corpus produced violations: %v", violations)
	}
}

func TestEmptyCorpus(t *testing.T) {
	c := testutil.NewTestCorpus(t).Build()
	if violations := validate(t, c); len(violations) != 0 {
		t.Errorf("empty corpus produced violations: %v", violations)
	}
}

func TestInvalidFolderNameIsTerminal(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_work_efforts/WE-260101-a1b2 Bad Name/whatever_index.md",
			"Links to [[nowhere-at-all]].\n").
		Build()
	violations := validate(t, c)

	folder := byCategory(violations, InvalidFolderName)
	if len(folder) != 1 {
		t.Fatalf("got %d folder violations, want 1: %v", len(folder), violations)
	}
	if folder[0].Fixable {
		t.Error("invalid folder name must not be fixable")
	}
	// Terminal: nothing else is reported inside that folder.
	for _, v := range violations {
		if v.Category != InvalidFolderName {
			t.Errorf("unexpected violation in terminal folder: %v", v)
		}
	}
}

func TestIncorrectIndexName(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_work_efforts/WE-260101-a1b2_auth/wrong_index.md",
			"---\nid: WE-260101-a1b2\ntitle: Auth\nstatus: active\ncreated: 2026-01-01\n---\n").
		Build()
	violations := validate(t, c)

	wrong := byCategory(violations, InvalidIndexName)
	if len(wrong) != 1 {
		t.Fatalf("got %d, want 1: %v", len(wrong), violations)
	}
	v := wrong[0]
	if !v.Fixable || v.Expected != "WE-260101-a1b2_index.md" || v.Actual != "wrong_index.md" {
		t.Errorf("violation = %+v", v)
	}
}

func TestMissingIndexFile(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_work_efforts/WE-260101-a1b2_auth/notes.md", "# Notes\n").
		Build()
	violations := validate(t, c)

	missing := byCategory(violations, MissingIndexFile)
	if len(missing) != 1 {
		t.Fatalf("got %d, want 1: %v", len(missing), violations)
	}
	if missing[0].Fixable {
		t.Error("missing index cannot be fixable: the fixer cannot fabricate content")
	}
}

func TestIDMismatch(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_work_efforts/WE-260101-a1b2_auth/tickets/TKT-260101-002_retry.md",
		"---\nid: TKT-260102-002\ntitle: Retry\nstatus: open\nparent: WE-260101-a1b2\n---\nPart of [[WE-260101-a1b2]].\n")
	violations := validate(t, c.Build())

	mismatches := byCategory(violations, IDMismatch)
	if len(mismatches) != 1 {
		t.Fatalf("got %d id mismatches, want 1: %v", len(mismatches), violations)
	}
	v := mismatches[0]
	if !v.Fixable || v.Expected != "TKT-260101-002" || v.Actual != "TKT-260102-002" {
		t.Errorf("violation = %+v", v)
	}
	if v.Line != 2 {
		t.Errorf("Line = %d, want the id field line 2", v.Line)
	}
}

func TestMissingFields(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md",
			"---\nid: WE-260101-a1b2\ntitle: Auth\n---\n# Auth\n").
		Build()
	violations := validate(t, c)

	missing := byCategory(violations, MissingField)
	if len(missing) != 2 {
		t.Fatalf("got %d, want 2 (status, created): %v", len(missing), violations)
	}
	for _, v := range missing {
		if v.Fixable {
			t.Errorf("missing field must not be fixable: %+v", v)
		}
	}
}

func TestTicketDateMismatch(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_work_efforts/WE-260101-a1b2_auth/tickets/TKT-260715-002_followup.md",
		"---\nid: TKT-260715-002\ntitle: Followup\nstatus: open\nparent: WE-260101-a1b2\n---\nPart of [[WE-260101-a1b2]].\n")
	violations := validate(t, c.Build())

	mismatches := byCategory(violations, TicketDateMismatch)
	if len(mismatches) != 1 {
		t.Fatalf("got %d, want 1: %v", len(mismatches), violations)
	}
	if mismatches[0].Expected != "TKT-260101-002_followup.md" || !mismatches[0].Fixable {
		t.Errorf("violation = %+v", mismatches[0])
	}
}

func TestDuplicateIdentifier(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/copy.md",
		"---\nid: WE-260101-a1b2\n---\n# Copy\n")
	violations := validate(t, c.Build())

	dupes := byCategory(violations, DuplicateID)
	if len(dupes) != 1 {
		t.Fatalf("got %d duplicate violations, want one per colliding identifier: %v", len(dupes), violations)
	}
	v := dupes[0]
	if v.Fixable {
		t.Errorf("duplicate ids are never auto-fixed: %+v", v)
	}
	// The single finding must name every declaring document.
	if !strings.Contains(v.Message, "_docs/copy.md") ||
		!strings.Contains(v.Message, "_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md") {
		t.Errorf("message does not reference both paths: %q", v.Message)
	}
	if v.Path != "_docs/copy.md" {
		t.Errorf("primary path should be the first sorted declarer, got %q", v.Path)
	}
}

func TestMentionsDoNotCountAsDuplicates(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/notes.md", "# Notes\n\nWE-260101-a1b2 comes up a lot. WE-260101-a1b2 again.\n")
	violations := validate(t, c.Build())

	if dupes := byCategory(violations, DuplicateID); len(dupes) != 0 {
		t.Errorf("reference mentions must not count as declarations: %v", dupes)
	}
}

func TestBrokenLink(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/notes.md", "# Notes\n\nSee [[WE-260101-dead]] for details.\n")
	violations := validate(t, c.Build())

	broken := byCategory(violations, BrokenLink)
	if len(broken) != 1 {
		t.Fatalf("got %d broken links, want exactly 1: %v", len(broken), violations)
	}
	if broken[0].Line != 3 {
		t.Errorf("Line = %d, want 3", broken[0].Line)
	}
	if broken[0].Severity != SeverityWarning {
		t.Errorf("Severity = %v, want warning", broken[0].Severity)
	}
}

func TestCaseCollision(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/Setup.md", "# Setup\n")
	c.WithFile("archive/setup.md", "# setup\n")
	violations := validate(t, c.Build())

	if collisions := byCategory(violations, CaseCollision); len(collisions) == 0 {
		t.Errorf("expected a case collision warning: %v", violations)
	}
}

func TestOrphan(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/scratch.md", "# Scratch\n")
	violations := validate(t, c.Build())

	orphans := byCategory(violations, Orphan)
	if len(orphans) != 1 || orphans[0].Path != "_docs/scratch.md" {
		t.Fatalf("orphans = %v", orphans)
	}
	if orphans[0].Severity != SeverityInfo {
		t.Error("orphans are info-level only")
	}
}

func TestEntryPointsAreNotOrphans(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("README.md", "# Top\n").
		WithFile("devlog.md", "# Log\n").
		Build()
	violations := validate(t, c)
	if orphans := byCategory(violations, Orphan); len(orphans) != 0 {
		t.Errorf("entry points reported as orphans: %v", orphans)
	}
}

func TestUnlinkedMention(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/notes.md",
		"# Notes\n\nWork continues on WE-260101-a1b2 today.\n\n| Ticket | Status |\n| --- | --- |\n| TKT-260101-001 | open |\n")
	violations := validate(t, c.Build())

	mentions := byCategory(violations, UnlinkedMention)
	if len(mentions) != 2 {
		t.Fatalf("got %d mentions, want 2: %v", len(mentions), violations)
	}
	if mentions[0].Expected != "WE-260101-a1b2" || !mentions[0].Fixable {
		t.Errorf("prose mention = %+v", mentions[0])
	}
	if mentions[1].Expected != "TKT-260101-001" {
		t.Errorf("table mention = %+v", mentions[1])
	}
}

func TestUnresolvableMentionNotReported(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/notes.md", "# Notes\n\nMentions WE-990101-zzzz with no target.\n")
	violations := validate(t, c.Build())
	if mentions := byCategory(violations, UnlinkedMention); len(mentions) != 0 {
		t.Errorf("mention without a target should not be reported: %v", mentions)
	}
}

func TestFrontmatterLink(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/meta.md",
		"---\ntitle: Meta\nrelated_work_efforts:\n  - \"[[WE-260101-a1b2]]\"\n---\n# Meta\n")
	violations := validate(t, c.Build())

	links := byCategory(violations, FrontmatterLink)
	if len(links) != 1 {
		t.Fatalf("got %d frontmatter links, want 1: %v", len(links), violations)
	}
	if !links[0].Fixable || links[0].Expected != "WE-260101-a1b2" {
		t.Errorf("violation = %+v", links[0])
	}
}

func TestMissingParentLink(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_work_efforts/WE-260101-a1b2_auth/tickets/TKT-260101-003_quiet.md",
		"---\nid: TKT-260101-003\ntitle: Quiet\nstatus: open\nparent: WE-260101-a1b2\n---\nNo links here.\n")
	violations := validate(t, c.Build())

	missing := byCategory(violations, MissingParentLink)
	if len(missing) != 1 {
		t.Fatalf("got %d, want 1: %v", len(missing), violations)
	}
	if missing[0].Expected != "WE-260101-a1b2" || !missing[0].Fixable {
		t.Errorf("violation = %+v", missing[0])
	}
}

func TestLegacyTicketName(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_work_efforts/WE-260101-a1b2_auth/tickets/TKT-a1b2-004_old_style.md",
		"---\nid: TKT-a1b2-004\ntitle: Old\nstatus: open\nparent: WE-260101-a1b2\n---\nPart of [[WE-260101-a1b2]].\n")
	violations := validate(t, c.Build())

	legacy := byCategory(violations, LegacyID)
	if len(legacy) == 0 {
		t.Fatalf("expected a legacy-id finding: %v", violations)
	}
	for _, v := range legacy {
		if v.Severity != SeverityInfo {
			t.Errorf("legacy ids are info-level: %+v", v)
		}
	}
}

func TestInvalidCreatedDate(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md",
		"---\nid: WE-260101-a1b2\ntitle: Auth\nstatus: active\ncreated: Jan 1\n---\n# Auth\n\nTracks [[TKT-260101-001]].\n")
	violations := validate(t, c.Build())

	bad := byCategory(violations, InvalidFieldValue)
	if len(bad) != 1 {
		t.Fatalf("got %d invalid-field-value findings: %v", len(bad), violations)
	}
	v := bad[0]
	if v.Severity != SeverityWarning || v.Actual != "Jan 1" || v.Line != 5 {
		t.Errorf("violation = %+v", v)
	}
	if v.Fixable {
		t.Error("a malformed date has no safe repair")
	}
}

func TestMiscasedLink(t *testing.T) {
	c := cleanCorpus(t)
	c.WithFile("_docs/notes.md", "# Notes\n\nSee [[we-260101-A1B2]] for details.\n")
	violations := validate(t, c.Build())

	miscased := byCategory(violations, MiscasedLink)
	if len(miscased) != 1 {
		t.Fatalf("got %d miscased-link findings: %v", len(miscased), violations)
	}
	v := miscased[0]
	if v.Severity != SeverityWarning || !v.Fixable {
		t.Errorf("miscased links are fixable warnings: %+v", v)
	}
	if v.Actual != "[[we-260101-A1B2]]" || v.Expected != "[[WE-260101-a1b2]]" {
		t.Errorf("Actual/Expected = %q/%q", v.Actual, v.Expected)
	}
	if v.Line != 3 {
		t.Errorf("Line = %d, want 3", v.Line)
	}
	if len(byCategory(violations, BrokenLink)) != 0 {
		t.Errorf("a miscased link still resolves: %v", violations)
	}
}

func TestExactCaseLinkNotFlagged(t *testing.T) {
	violations := validate(t, cleanCorpus(t).Build())
	if miscased := byCategory(violations, MiscasedLink); len(miscased) != 0 {
		t.Errorf("exact-case links must not be flagged: %v", miscased)
	}
}

func TestMiscasedFolderNameIsFlagged(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_work_efforts/we-260101-b7k2_lowercase/we-260101-b7k2_index.md", "# Low\n").
		Build()
	violations := validate(t, c)

	folder := byCategory(violations, InvalidFolderName)
	if len(folder) != 1 {
		t.Fatalf("got %d folder violations: %v", len(folder), violations)
	}
	if folder[0].Actual != "we-260101-b7k2_lowercase" {
		t.Errorf("Actual = %q", folder[0].Actual)
	}
}
