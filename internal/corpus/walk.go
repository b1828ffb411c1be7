package corpus

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pyritehq/pyrite/internal/parser"
)

// WalkResult contains the result of processing one markdown file.
type WalkResult struct {
	Path         string
	RelativePath string // slash-separated, relative to the corpus root
	Document     *parser.Document
	Error        error
}

// WalkMarkdownFiles walks all markdown files under root and calls the handler
// for each. Hidden directories are skipped. Read and parse failures are
// delivered through WalkResult.Error rather than aborting the walk, so one
// unreadable file degrades to a reported issue instead of killing the run.
func WalkMarkdownFiles(root string, handler func(result WalkResult) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			rel, _ := filepath.Rel(root, path)
			return handler(WalkResult{
				Path:         path,
				RelativePath: filepath.ToSlash(rel),
				Error:        err,
			})
		}

		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return nil
		}

		if !strings.HasSuffix(path, ".md") {
			return nil
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)

		content, err := os.ReadFile(path)
		if err != nil {
			return handler(WalkResult{Path: path, RelativePath: rel, Error: err})
		}

		doc, err := parser.Parse(string(content))
		return handler(WalkResult{
			Path:         path,
			RelativePath: rel,
			Document:     doc,
			Error:        err,
		})
	})
}
