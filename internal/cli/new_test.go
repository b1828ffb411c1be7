package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pyritehq/pyrite/internal/check"
	"github.com/pyritehq/pyrite/internal/config"
	"github.com/pyritehq/pyrite/internal/corpus"
)

func setupCLITest(t *testing.T) string {
	t.Helper()
	tmp := t.TempDir()

	prevRoot := resolvedRoot
	prevCfg := cfg
	prevLogger := logger
	prevParent := newParent
	t.Cleanup(func() {
		resolvedRoot = prevRoot
		cfg = prevCfg
		logger = prevLogger
		newParent = prevParent
	})

	resolvedRoot = tmp
	cfg = &config.Config{}
	logger = newLogger()
	return tmp
}

func TestNewDocumentsPassCheck(t *testing.T) {
	tmp := setupCLITest(t)

	if err := newWorkEffortCmd.RunE(newWorkEffortCmd, []string{"Auth Overhaul"}); err != nil {
		t.Fatalf("new work-effort: %v", err)
	}

	matches, err := filepath.Glob(filepath.Join(tmp, "_work_efforts", "WE-*"))
	if err != nil || len(matches) != 1 {
		t.Fatalf("expected one work effort folder, got %v (%v)", matches, err)
	}
	folder := filepath.Base(matches[0])
	if !strings.HasSuffix(folder, "_auth_overhaul") {
		t.Errorf("folder %q does not carry the slugged title", folder)
	}
	weID, ok := corpus.FolderID(folder)
	if !ok {
		t.Fatalf("folder %q has no parseable identifier", folder)
	}
	if _, err := os.Stat(filepath.Join(matches[0], corpus.IndexName(weID))); err != nil {
		t.Fatalf("index file missing: %v", err)
	}

	newParent = weID.String()
	if err := newTicketCmd.RunE(newTicketCmd, []string{"Fix login flow"}); err != nil {
		t.Fatalf("new ticket: %v", err)
	}

	ticketName := "TKT-" + weID.DatePart() + "-001_fix_login_flow.md"
	ticketPath := filepath.Join(matches[0], "tickets", ticketName)
	if _, err := os.Stat(ticketPath); err != nil {
		t.Fatalf("ticket file missing: %v", err)
	}

	indexContent, err := os.ReadFile(filepath.Join(matches[0], corpus.IndexName(weID)))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(indexContent), "[[TKT-"+weID.DatePart()+"-001]]") {
		t.Errorf("parent index does not link the new ticket:\n%s", indexContent)
	}

	ix, err := corpus.Build(tmp, corpus.Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	violations := check.NewValidator(ix, check.Options{}).Run()
	if len(violations) != 0 {
		t.Errorf("freshly created documents produced violations: %v", violations)
	}
}

func TestNewWorkEffortRejectsEmptyTitle(t *testing.T) {
	setupCLITest(t)

	if err := newWorkEffortCmd.RunE(newWorkEffortCmd, []string{"???"}); err == nil {
		t.Error("expected an error for a title with no sluggable characters")
	}
}

func TestNewTicketRequiresExistingParent(t *testing.T) {
	setupCLITest(t)

	newParent = "WE-260101-zzzz"
	if err := newTicketCmd.RunE(newTicketCmd, []string{"Drift"}); err == nil {
		t.Error("expected an error for a parent absent from the corpus")
	}
}
