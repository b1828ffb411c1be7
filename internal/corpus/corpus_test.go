package corpus

import (
	"testing"

	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/testutil"
)

func buildIndex(t *testing.T, c *testutil.TestCorpus) *Index {
	t.Helper()
	ix, err := Build(c.Path, Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return ix
}

func TestBuildEmptyCorpus(t *testing.T) {
	c := testutil.NewTestCorpus(t).Build()
	ix := buildIndex(t, c)
	if len(ix.Docs) != 0 {
		t.Errorf("got %d documents, want 0", len(ix.Docs))
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		relPath string
		want    Kind
	}{
		{"_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md", KindWorkEffortIndex},
		{"_work_efforts/WE-260101-a1b2_auth/tickets/TKT-260101-001_login.md", KindTicket},
		{"_work_efforts/WE-260101-a1b2_auth/notes.md", KindGeneric},
		{"_docs/guide.md", KindGeneric},
		{"README.md", KindGeneric},
		{"TKT-260101-002_stray.md", KindTicket},
		{"assets/logo.png", KindNone},
	}
	for _, tt := range tests {
		if got := classify(tt.relPath); got != tt.want {
			t.Errorf("classify(%q) = %v, want %v", tt.relPath, got, tt.want)
		}
	}
}

func TestBuildIndexesWorkEffort(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithWorkEffort("WE-260101-a1b2", "auth", "Auth").
		WithTicket("WE-260101-a1b2", "auth", "TKT-260101-001", "fix_login", "").
		WithFile("_docs/guide.md", "# Guide\n\nSee [[WE-260101-a1b2]].\n").
		Build()
	ix := buildIndex(t, c)

	if len(ix.Docs) != 3 {
		t.Fatalf("got %d documents, want 3", len(ix.Docs))
	}

	t.Run("declared id", func(t *testing.T) {
		id, _ := ident.Parse("WE-260101-a1b2")
		docs := ix.DeclaredBy(id)
		if len(docs) != 1 || docs[0].Kind != KindWorkEffortIndex {
			t.Errorf("DeclaredBy = %v", docs)
		}
	})

	t.Run("ident lookup by filename", func(t *testing.T) {
		id, _ := ident.Parse("TKT-260101-001")
		doc, ok := ix.ByIdent(id)
		if !ok {
			t.Fatal("ticket not found by identifier")
		}
		if doc.Stem() != "TKT-260101-001_fix_login" {
			t.Errorf("ByIdent stem = %q", doc.Stem())
		}
	})

	t.Run("inbound links", func(t *testing.T) {
		indexPath := "_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md"
		// guide.md links the work effort by id; the ticket's parent
		// back-link also lands on the index file.
		if n := ix.Inbound(indexPath); n != 2 {
			t.Errorf("Inbound(index) = %d, want 2", n)
		}
		if n := ix.Inbound("_docs/guide.md"); n != 0 {
			t.Errorf("Inbound(guide) = %d, want 0", n)
		}
	})
}

func TestResolveCandidateOrder(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_docs/topic.md", "# Topic\n").
		WithFile("_work_efforts/WE-260101-a1b2_auth/WE-260101-a1b2_index.md", "# Auth\n").
		WithFile("_docs/sibling.md", "# Sibling\n").
		Build()
	ix := buildIndex(t, c)

	t.Run("bare stem", func(t *testing.T) {
		res, ok := ix.Resolve("topic", "")
		if !ok || res.Doc.RelPath != "_docs/topic.md" {
			t.Errorf("Resolve(topic) = %+v, %v", res, ok)
		}
	})

	t.Run("with extension", func(t *testing.T) {
		res, ok := ix.Resolve("topic.md", "")
		if !ok || res.Doc.RelPath != "_docs/topic.md" {
			t.Errorf("Resolve(topic.md) = %+v, %v", res, ok)
		}
	})

	t.Run("index suffix", func(t *testing.T) {
		res, ok := ix.Resolve("WE-260101-a1b2", "")
		if !ok || res.Doc.Stem() != "WE-260101-a1b2_index" {
			t.Errorf("Resolve(WE id) = %+v, %v", res, ok)
		}
	})

	t.Run("relative to source dir", func(t *testing.T) {
		res, ok := ix.Resolve("sibling", "_docs")
		if !ok || res.Doc.RelPath != "_docs/sibling.md" {
			t.Errorf("Resolve(sibling) = %+v, %v", res, ok)
		}
	})

	t.Run("unresolved", func(t *testing.T) {
		if _, ok := ix.Resolve("missing", ""); ok {
			t.Error("missing should not resolve")
		}
	})
}

func TestResolveCaseInsensitive(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_docs/Setup_Guide.md", "# Setup\n").
		Build()
	ix := buildIndex(t, c)

	res, ok := ix.Resolve("setup_guide", "")
	if !ok {
		t.Fatal("case-insensitive fallback should resolve")
	}
	if !res.CaseFolded {
		t.Error("CaseFolded should be true for a folded match")
	}
	if res.Key != "Setup_Guide" {
		t.Errorf("Key = %q, want canonical spelling", res.Key)
	}
}

func TestFoldCollisions(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_docs/Readme_extra.md", "x\n").
		WithFile("notes/readme_extra.md", "y\n").
		WithFile("_docs/unique.md", "z\n").
		Build()
	ix := buildIndex(t, c)

	collisions := ix.FoldCollisions()
	if _, ok := collisions["readme_extra"]; !ok {
		t.Errorf("expected collision on readme_extra, got %v", collisions)
	}
	for key := range collisions {
		if key == "unique" {
			t.Error("unique key should not collide")
		}
	}
}

func TestSameCaseDuplicateStemsDoNotCollide(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_docs/same.md", "x\n").
		WithFile("notes/same.md", "y\n").
		Build()
	ix := buildIndex(t, c)

	if collisions := ix.FoldCollisions(); len(collisions) != 0 {
		t.Errorf("identical spellings are not case collisions: %v", collisions)
	}
}

func TestBuildToleratesBadFile(t *testing.T) {
	c := testutil.NewTestCorpus(t).
		WithFile("_docs/bad.md", "---\nid: [unclosed\n---\nbody\n").
		WithFile("_docs/good.md", "# Fine\n").
		Build()
	ix := buildIndex(t, c)

	if len(ix.Docs) != 2 {
		t.Fatalf("got %d documents, want 2", len(ix.Docs))
	}
	var bad *Document
	for _, d := range ix.Docs {
		if d.Stem() == "bad" {
			bad = d
		}
	}
	if bad == nil || bad.Err == nil {
		t.Error("bad.md should carry a parse error")
	}
}
