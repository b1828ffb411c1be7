// Package testutil provides reusable test utilities for building temporary
// corpora on disk.
package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestCorpus represents a temporary corpus for testing.
type TestCorpus struct {
	Path  string
	t     *testing.T
	files map[string]string
}

// NewTestCorpus creates a new test corpus builder.
// Call Build() to create the actual directory.
func NewTestCorpus(t *testing.T) *TestCorpus {
	t.Helper()
	return &TestCorpus{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the corpus. The path is relative to the corpus root.
func (c *TestCorpus) WithFile(path, content string) *TestCorpus {
	c.files[path] = content
	return c
}

// WithConfig sets the pyrite.toml content.
func (c *TestCorpus) WithConfig(toml string) *TestCorpus {
	c.files["pyrite.toml"] = toml
	return c
}

// WithWorkEffort adds a conformant work-effort folder with an index file.
// weID is the bare identifier, desc the sanitized description.
func (c *TestCorpus) WithWorkEffort(weID, desc, title string) *TestCorpus {
	folder := fmt.Sprintf("_work_efforts/%s_%s", weID, desc)
	index := fmt.Sprintf("%s/%s_index.md", folder, weID)
	c.files[index] = fmt.Sprintf(
		"---\nid: %s\ntitle: %s\nstatus: active\ncreated: 2026-01-01\n---\n# %s\n",
		weID, title, title)
	return c
}

// WithTicket adds a ticket file under a work-effort folder built by
// WithWorkEffort. body is appended after the frontmatter.
func (c *TestCorpus) WithTicket(weID, weDesc, tktID, tktDesc, body string) *TestCorpus {
	path := fmt.Sprintf("_work_efforts/%s_%s/tickets/%s_%s.md",
		weID, weDesc, tktID, tktDesc)
	c.files[path] = fmt.Sprintf(
		"---\nid: %s\ntitle: %s\nstatus: open\nparent: %s\n---\nPart of [[%s]].\n\n%s",
		tktID, strings.ReplaceAll(tktDesc, "_", " "), weID, weID, body)
	return c
}

// Build creates the corpus directory and all configured files.
func (c *TestCorpus) Build() *TestCorpus {
	c.t.Helper()
	c.Path = c.t.TempDir()
	for path, content := range c.files {
		c.WriteFile(path, content)
	}
	return c
}

// WriteFile writes a file into the corpus, creating directories as needed.
func (c *TestCorpus) WriteFile(relPath, content string) {
	c.t.Helper()
	fullPath := filepath.Join(c.Path, relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		c.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		c.t.Fatalf("failed to write file %s: %v", relPath, err)
	}
}

// ReadFile reads a file from the corpus.
func (c *TestCorpus) ReadFile(relPath string) string {
	c.t.Helper()
	content, err := os.ReadFile(filepath.Join(c.Path, relPath))
	if err != nil {
		c.t.Fatalf("failed to read file %s: %v", relPath, err)
	}
	return string(content)
}
