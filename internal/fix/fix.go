// Package fix applies the bounded whitelist of idempotent repairs driven by
// validator findings: renames, frontmatter id rewrites, frontmatter link
// stripping, mention upgrades, link case normalization, and parent back-link
// insertion. Every transform consumes the violation's Expected value; nothing
// is re-derived.
package fix

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pyritehq/pyrite/internal/atomicfile"
	"github.com/pyritehq/pyrite/internal/check"
	"github.com/pyritehq/pyrite/internal/corpus"
	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/parser"
	"github.com/pyritehq/pyrite/internal/wikilink"
)

// Action is one applied (or, in dry-run, planned) repair.
type Action struct {
	Category check.Category
	Path     string
	Detail   string
}

func (a Action) String() string {
	return fmt.Sprintf("%s: %s (%s)", a.Path, a.Detail, a.Category)
}

// Failure is a fix that could not be applied. Failures are counted
// separately from violations: the finding stands, the repair did not.
type Failure struct {
	Violation check.Violation
	Err       error
}

// Result summarizes a fix run.
type Result struct {
	Applied []Action
	Failed  []Failure
}

// Options configures a fix run.
type Options struct {
	// DryRun reports the actions without writing anything.
	DryRun bool

	// Logger receives per-fix tracing. Nil discards.
	Logger *slog.Logger
}

// Fixer applies repairs against a built index. The index is read for
// document content and target resolution; all writes go through the
// filesystem so a later re-validation sees the real state.
type Fixer struct {
	ix     *corpus.Index
	dryRun bool
	log    *slog.Logger
}

// New creates a fixer over an index.
func New(ix *corpus.Index, opts Options) *Fixer {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Fixer{ix: ix, dryRun: opts.DryRun, log: log}
}

// Apply runs every fixable violation through the whitelist. Content edits
// run first, grouped one write per file; renames run last so content edits
// never chase a moved file.
func (f *Fixer) Apply(violations []check.Violation) (*Result, error) {
	res := &Result{}

	edits := make(map[string][]check.Violation)
	var renames []check.Violation

	for _, v := range violations {
		if !v.Fixable {
			continue
		}
		switch v.Category {
		case check.InvalidIndexName, check.InvalidTicketName, check.TicketDateMismatch:
			renames = append(renames, v)
		case check.IDMismatch, check.FrontmatterLink, check.UnlinkedMention,
			check.MiscasedLink, check.MissingParentLink:
			edits[v.Path] = append(edits[v.Path], v)
		}
	}

	paths := make([]string, 0, len(edits))
	for p := range edits {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		f.editFile(p, edits[p], res)
	}

	for _, v := range renames {
		f.rename(v, res)
	}

	f.log.Debug("fix run complete", "applied", len(res.Applied), "failed", len(res.Failed))
	return res, nil
}

// editFile applies all content repairs for one document in a single write.
func (f *Fixer) editFile(relPath string, violations []check.Violation, res *Result) {
	doc, ok := f.ix.ByPath(relPath)
	if !ok || doc.Parsed == nil {
		for _, v := range violations {
			res.Failed = append(res.Failed, Failure{v, fmt.Errorf("document not indexed: %s", relPath)})
		}
		return
	}

	lines := make([]string, len(doc.Parsed.Lines))
	copy(lines, doc.Parsed.Lines)
	var actions []Action

	// Mention upgrades go right-to-left within each line so earlier offsets
	// stay valid.
	sort.SliceStable(violations, func(i, j int) bool {
		if violations[i].Line != violations[j].Line {
			return violations[i].Line > violations[j].Line
		}
		return violations[i].Start > violations[j].Start
	})

	for _, v := range violations {
		switch v.Category {
		case check.IDMismatch:
			if v.Line < 1 || v.Line > len(lines) {
				res.Failed = append(res.Failed, Failure{v, fmt.Errorf("id line %d out of range", v.Line)})
				continue
			}
			lines[v.Line-1] = "id: " + v.Expected
			actions = append(actions, Action{v.Category, relPath,
				fmt.Sprintf("rewrote frontmatter id to %s", v.Expected)})

		case check.FrontmatterLink:
			if v.Line < 1 || v.Line > len(lines) {
				res.Failed = append(res.Failed, Failure{v, fmt.Errorf("line %d out of range", v.Line)})
				continue
			}
			lines[v.Line-1] = stripWikilinks(lines[v.Line-1])
			actions = append(actions, Action{v.Category, relPath,
				fmt.Sprintf("stripped wikilink syntax around %s", v.Expected)})

		case check.UnlinkedMention:
			line, err := f.upgradeMention(doc, lines[v.Line-1], v)
			if err != nil {
				res.Failed = append(res.Failed, Failure{v, err})
				continue
			}
			lines[v.Line-1] = line
			actions = append(actions, Action{v.Category, relPath,
				fmt.Sprintf("linked mention of %s", v.Expected)})

		case check.MiscasedLink:
			line, err := replaceSpan(lines[v.Line-1], v)
			if err != nil {
				res.Failed = append(res.Failed, Failure{v, err})
				continue
			}
			lines[v.Line-1] = line
			actions = append(actions, Action{v.Category, relPath,
				fmt.Sprintf("normalized link case to %s", v.Expected)})

		case check.MissingParentLink:
			lines = insertParentLink(lines, doc, v.Expected)
			actions = append(actions, Action{v.Category, relPath,
				fmt.Sprintf("inserted back-link to %s", v.Expected)})
		}
	}

	if len(actions) == 0 {
		return
	}
	if !f.dryRun {
		content := strings.Join(lines, "\n")
		if err := atomicfile.WriteFile(doc.Path, []byte(content), 0); err != nil {
			for _, v := range violations {
				res.Failed = append(res.Failed, Failure{v, err})
			}
			return
		}
	}
	res.Applied = append(res.Applied, actions...)
}

// upgradeMention replaces a bare identifier with a link: wikilink form in
// prose, bracket-and-parenthesis form in table cells where the wikilink
// alias pipe would be misparsed as a column delimiter. The reference is
// normalized to the canonical declared spelling.
func (f *Fixer) upgradeMention(doc *corpus.Document, line string, v check.Violation) (string, error) {
	if v.Start < 0 || v.End > len(line) || line[v.Start:v.End] != v.Actual {
		return "", fmt.Errorf("mention %q moved; not rewriting", v.Actual)
	}

	var rendered string
	if v.Loc == parser.LocTableCell {
		id, err := ident.Parse(v.Expected)
		if err != nil {
			return "", err
		}
		target, ok := f.ix.ByIdent(id)
		if !ok {
			return "", fmt.Errorf("target for %s vanished from the index", v.Expected)
		}
		rel, err := relativeTo(doc.Dir(), target.RelPath)
		if err != nil {
			return "", err
		}
		rendered = wikilink.Markdown(v.Expected, rel)
	} else {
		rendered = wikilink.Wiki(v.Expected, "")
	}

	return line[:v.Start] + rendered + line[v.End:], nil
}

// replaceSpan swaps a verified byte range of a line for the violation's
// Expected text, used for link case normalization.
func replaceSpan(line string, v check.Violation) (string, error) {
	if v.Start < 0 || v.End > len(line) || line[v.Start:v.End] != v.Actual {
		return "", fmt.Errorf("link %q moved; not rewriting", v.Actual)
	}
	return line[:v.Start] + v.Expected + line[v.End:], nil
}

// stripWikilinks removes link syntax from a frontmatter line, keeping the
// target text.
func stripWikilinks(line string) string {
	for {
		matches := wikilink.FindAllInLine(line)
		if len(matches) == 0 {
			return line
		}
		m := matches[0]
		line = line[:m.Start] + m.Target + line[m.End:]
	}
}

// insertParentLink adds a back-link near the top of a ticket body: after the
// first heading when the body opens with one, otherwise before the first
// body line.
func insertParentLink(lines []string, doc *corpus.Document, parentID string) []string {
	bodyStart := 0
	if fm := doc.Parsed.Frontmatter; fm != nil {
		bodyStart = fm.EndLine
	}

	at := bodyStart
	for i := bodyStart; i < len(lines); i++ {
		trimmed := strings.TrimSpace(lines[i])
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, "#") {
			at = i + 1
		} else {
			at = i
		}
		break
	}

	link := fmt.Sprintf("Part of %s.", wikilink.Wiki(parentID, ""))
	out := make([]string, 0, len(lines)+2)
	out = append(out, lines[:at]...)
	out = append(out, "", link)
	out = append(out, lines[at:]...)
	return out
}

// rename moves a misnamed file to its expected name. Fails closed: an
// existing destination aborts only this fix. Ticket renames that change the
// embedded date also rewrite the frontmatter id to match.
func (f *Fixer) rename(v check.Violation, res *Result) {
	oldAbs := filepath.Join(f.ix.Root, filepath.FromSlash(v.Path))
	newAbs := filepath.Join(filepath.Dir(oldAbs), v.Expected)
	newRel := path.Join(path.Dir(v.Path), v.Expected)

	if _, err := os.Stat(newAbs); err == nil {
		res.Failed = append(res.Failed, Failure{v, fmt.Errorf("target %s already exists", newRel)})
		return
	}

	if f.dryRun {
		res.Applied = append(res.Applied, Action{v.Category, v.Path,
			fmt.Sprintf("would rename to %s", v.Expected)})
		return
	}

	if err := os.Rename(oldAbs, newAbs); err != nil {
		res.Failed = append(res.Failed, Failure{v, err})
		return
	}
	res.Applied = append(res.Applied, Action{v.Category, v.Path,
		fmt.Sprintf("renamed to %s", v.Expected)})

	if v.Category == check.TicketDateMismatch || v.Category == check.InvalidTicketName {
		if err := f.rewriteIDLine(newAbs, v.Expected); err != nil {
			res.Failed = append(res.Failed, Failure{v, err})
		}
	}
}

// rewriteIDLine updates the frontmatter id of a just-renamed file to the
// identifier implied by its new name.
func (f *Fixer) rewriteIDLine(absPath, newName string) error {
	id, ok := corpus.FolderID(newName)
	if !ok {
		return fmt.Errorf("no identifier in %s", newName)
	}
	content, err := os.ReadFile(absPath)
	if err != nil {
		return err
	}
	lines := strings.Split(string(content), "\n")

	inFM := false
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "---" {
			if i == 0 {
				inFM = true
				continue
			}
			break
		}
		if inFM && strings.HasPrefix(trimmed, "id:") {
			if lines[i] == "id: "+id.String() {
				return nil
			}
			lines[i] = "id: " + id.String()
			return atomicfile.WriteFile(absPath, []byte(strings.Join(lines, "\n")), 0)
		}
	}
	return nil
}

// relativeTo computes a slash-separated path from one directory to a target
// relative path.
func relativeTo(fromDir, target string) (string, error) {
	if fromDir == "" {
		return target, nil
	}
	rel, err := filepath.Rel(filepath.FromSlash(fromDir), filepath.FromSlash(target))
	if err != nil {
		return "", err
	}
	return filepath.ToSlash(rel), nil
}
