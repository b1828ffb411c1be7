package check

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pyritehq/pyrite/internal/corpus"
	"github.com/pyritehq/pyrite/internal/dates"
	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/parser"
	"github.com/pyritehq/pyrite/internal/slugs"
	"github.com/pyritehq/pyrite/internal/wikilink"
)

// DefaultEntryPoints are document names exempt from orphan reporting.
var DefaultEntryPoints = []string{"README.md", "devlog.md", "index.md"}

// Options configures a validation run.
type Options struct {
	// EntryPoints are basenames exempt from orphan reporting, in addition
	// to *_index.md files. Defaults to DefaultEntryPoints.
	EntryPoints []string

	// Logger receives per-check tracing. Nil discards.
	Logger *slog.Logger
}

// Validator runs the structural and link checks over a built index.
type Validator struct {
	ix    *corpus.Index
	entry map[string]struct{}
	log   *slog.Logger

	// folders that failed name conformance; no further checks run against
	// their contents since no identifier can safely be extracted.
	terminal []string
}

// NewValidator creates a validator over an index.
func NewValidator(ix *corpus.Index, opts Options) *Validator {
	entries := opts.EntryPoints
	if entries == nil {
		entries = DefaultEntryPoints
	}
	entry := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		entry[e] = struct{}{}
	}
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Validator{ix: ix, entry: entry, log: log}
}

// Run executes every check and returns the findings ordered by check, then
// path, then line.
func (v *Validator) Run() []Violation {
	var out []Violation
	out = append(out, v.checkStructure()...)
	out = append(out, v.checkDocuments()...)
	out = append(out, v.checkGraph()...)

	sort.SliceStable(out, func(i, j int) bool {
		if r1, r2 := rank(out[i].Category), rank(out[j].Category); r1 != r2 {
			return r1 < r2
		}
		if out[i].Path != out[j].Path {
			return out[i].Path < out[j].Path
		}
		return out[i].Line < out[j].Line
	})
	v.log.Debug("validation complete", "violations", len(out))
	return out
}

// rank fixes the reporting order of checks.
func rank(c Category) int {
	order := []Category{
		InvalidFolderName, InvalidIndexName, InvalidTicketName,
		IDMismatch,
		MissingField,
		InvalidFieldValue,
		MissingIndexFile,
		TicketDateMismatch,
		DuplicateID,
		BrokenLink,
		MiscasedLink,
		CaseCollision,
		Orphan,
		UnlinkedMention,
		FrontmatterLink,
		MissingParentLink,
		LegacyID,
		FileError,
	}
	for i, cat := range order {
		if cat == c {
			return i
		}
	}
	return len(order)
}

// checkStructure validates folder, index, and ticket naming within the
// work-effort roots. Directory-driven rather than document-driven so that
// missing and misnamed files are visible.
func (v *Validator) checkStructure() []Violation {
	var out []Violation
	for _, workRoot := range v.ix.WorkRoots {
		rootDir := filepath.Join(v.ix.Root, workRoot)
		entries, err := os.ReadDir(rootDir)
		if err != nil {
			v.log.Debug("skipping work root", "root", workRoot, "err", err)
			continue
		}
		for _, entry := range entries {
			name := entry.Name()
			// Case-insensitive so we-/We- folders are flagged, not skipped.
			if !entry.IsDir() || len(name) < 3 || !strings.EqualFold(name[:3], "WE-") {
				continue
			}
			out = append(out, v.checkWorkEffort(workRoot, name)...)
		}
	}
	return out
}

func (v *Validator) checkWorkEffort(workRoot, folder string) []Violation {
	var out []Violation
	folderRel := path.Join(workRoot, folder)

	if !corpus.ValidFolderName(folder) {
		v.terminal = append(v.terminal, folderRel+"/")
		return []Violation{{
			Category: InvalidFolderName,
			Severity: SeverityError,
			Path:     folderRel,
			Message:  "folder name must match WE-YYMMDD-xxxx_description (lowercase, underscores)",
			Actual:   folder,
		}}
	}

	weID, _ := corpus.FolderID(folder)
	expectedIndex := corpus.IndexName(weID)
	folderAbs := filepath.Join(v.ix.Root, workRoot, folder)

	if _, err := os.Stat(filepath.Join(folderAbs, expectedIndex)); err != nil {
		misnamed, _ := filepath.Glob(filepath.Join(folderAbs, "*_index.md"))
		if len(misnamed) > 0 {
			actual := filepath.Base(misnamed[0])
			out = append(out, Violation{
				Category: InvalidIndexName,
				Severity: SeverityError,
				Path:     path.Join(folderRel, actual),
				Message:  fmt.Sprintf("index file should be named %s", expectedIndex),
				Actual:   actual,
				Expected: expectedIndex,
				Fixable:  true,
			})
		} else {
			out = append(out, Violation{
				Category: MissingIndexFile,
				Severity: SeverityError,
				Path:     folderRel,
				Message:  fmt.Sprintf("index file %s not found", expectedIndex),
				Expected: expectedIndex,
			})
		}
	}

	out = append(out, v.checkTickets(folderRel, folderAbs, weID)...)
	return out
}

func (v *Validator) checkTickets(folderRel, folderAbs string, weID ident.ID) []Violation {
	var out []Violation
	ticketsDir := filepath.Join(folderAbs, "tickets")
	entries, err := os.ReadDir(ticketsDir)
	if err != nil {
		return nil
	}
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		ticketRel := path.Join(folderRel, "tickets", name)

		switch {
		case corpus.ValidTicketName(name):
			tktID, _ := corpus.FolderID(name)
			if tktID.DatePart() != weID.DatePart() {
				seq, desc, _ := corpus.TicketParts(name)
				expected := fmt.Sprintf("TKT-%s-%s_%s.md", weID.DatePart(), seq, desc)
				out = append(out, Violation{
					Category: TicketDateMismatch,
					Severity: SeverityError,
					Path:     ticketRel,
					Message: fmt.Sprintf("ticket date %s does not match work effort date %s",
						tktID.DatePart(), weID.DatePart()),
					Actual:   name,
					Expected: expected,
					Fixable:  true,
				})
			}
		case corpus.LegacyTicketName(name):
			out = append(out, Violation{
				Category: LegacyID,
				Severity: SeverityInfo,
				Path:     ticketRel,
				Message:  "ticket uses the retired suffix-keyed identifier grammar",
				Actual:   name,
			})
		default:
			vio := Violation{
				Category: InvalidTicketName,
				Severity: SeverityError,
				Path:     ticketRel,
				Message:  "ticket file must match TKT-YYMMDD-NNN_description.md",
				Actual:   name,
			}
			if seq, desc, ok := corpus.TicketParts(name); ok && slugs.IsDescription(desc) {
				vio.Expected = fmt.Sprintf("TKT-%s-%s_%s.md", weID.DatePart(), seq, desc)
				vio.Fixable = true
			}
			out = append(out, vio)
		}
	}
	return out
}

// requiredFields per document kind. Omissions are reported, never fixed:
// no safe default value exists.
func requiredFields(kind corpus.Kind) []string {
	switch kind {
	case corpus.KindWorkEffortIndex:
		return []string{"id", "title", "status", "created"}
	case corpus.KindTicket:
		return []string{"id", "title", "status", "parent"}
	default:
		return nil
	}
}

func (v *Validator) skipped(relPath string) bool {
	for _, prefix := range v.terminal {
		if strings.HasPrefix(relPath, prefix) {
			return true
		}
	}
	return false
}

// checkDocuments runs the per-document checks: file errors, id mismatch,
// required fields, frontmatter links, legacy ids, and ticket parent
// back-links.
func (v *Validator) checkDocuments() []Violation {
	var out []Violation
	for _, doc := range v.ix.Docs {
		if doc.Kind == corpus.KindNone || v.skipped(doc.RelPath) {
			continue
		}
		if doc.Err != nil {
			out = append(out, Violation{
				Category: FileError,
				Severity: SeverityError,
				Path:     doc.RelPath,
				Message:  doc.Err.Error(),
			})
			if doc.Parsed == nil {
				continue
			}
		}
		out = append(out, v.checkDocument(doc)...)
	}
	return out
}

func (v *Validator) checkDocument(doc *corpus.Document) []Violation {
	var out []Violation
	fm := doc.Parsed.Frontmatter

	fileID, hasFileID := doc.FileID()
	if hasFileID && doc.RawID != "" && doc.RawID != fileID.String() {
		line := 0
		for _, f := range fm.Fields {
			if f.Key == "id" {
				line = f.Line
			}
		}
		out = append(out, Violation{
			Category: IDMismatch,
			Severity: SeverityError,
			Path:     doc.RelPath,
			Line:     line,
			Message:  fmt.Sprintf("frontmatter id %q does not match filename id %q", doc.RawID, fileID),
			Actual:   doc.RawID,
			Expected: fileID.String(),
			Fixable:  true,
		})
	}

	for _, field := range requiredFields(doc.Kind) {
		if !fm.Has(field) {
			out = append(out, Violation{
				Category: MissingField,
				Severity: SeverityError,
				Path:     doc.RelPath,
				Message:  fmt.Sprintf("missing required frontmatter field: %s", field),
				Expected: field,
			})
		}
	}

	if created, ok := fm.Get("created"); ok && !dates.IsValidDate(created) {
		line := 0
		for _, f := range fm.Fields {
			if f.Key == "created" {
				line = f.Line
			}
		}
		out = append(out, Violation{
			Category: InvalidFieldValue,
			Severity: SeverityWarning,
			Path:     doc.RelPath,
			Line:     line,
			Message:  fmt.Sprintf("created is not a YYYY-MM-DD date: %q", created),
			Actual:   created,
		})
	}

	for _, link := range doc.Parsed.Links {
		if link.Loc != parser.LocFrontmatter {
			continue
		}
		out = append(out, Violation{
			Category: FrontmatterLink,
			Severity: SeverityWarning,
			Path:     doc.RelPath,
			Line:     link.Line,
			Message:  fmt.Sprintf("wikilink syntax in frontmatter value: %s", link.Literal),
			Actual:   link.Literal,
			Expected: link.Target,
			Loc:      parser.LocFrontmatter,
			Fixable:  true,
		})
	}

	if doc.ID.Legacy {
		out = append(out, Violation{
			Category: LegacyID,
			Severity: SeverityInfo,
			Path:     doc.RelPath,
			Message:  fmt.Sprintf("declared id %s uses the retired suffix-keyed grammar", doc.ID),
			Actual:   doc.ID.String(),
		})
	}

	if doc.Kind == corpus.KindTicket {
		out = append(out, v.checkParentLink(doc)...)
	}
	return out
}

// checkParentLink verifies that a ticket's body links back to its parent
// work effort, inferred from the containing folder.
func (v *Validator) checkParentLink(doc *corpus.Document) []Violation {
	dir := doc.Dir()
	if path.Base(dir) != "tickets" {
		return nil
	}
	parentID, ok := corpus.FolderID(path.Base(path.Dir(dir)))
	if !ok || parentID.Kind != ident.KindWorkEffort {
		return nil
	}
	parentDoc, ok := v.ix.ByIdent(parentID)
	if !ok {
		return nil
	}

	for _, link := range doc.Parsed.Links {
		if link.Loc == parser.LocFrontmatter {
			continue
		}
		if res, ok := v.ix.Resolve(link.Target, doc.Dir()); ok && res.Doc == parentDoc {
			return nil
		}
	}
	return []Violation{{
		Category: MissingParentLink,
		Severity: SeverityInfo,
		Path:     doc.RelPath,
		Message:  fmt.Sprintf("ticket body does not link back to its parent %s", parentID),
		Expected: parentID.String(),
		Fixable:  true,
	}}
}

// checkGraph runs the corpus-wide checks: duplicate identifiers, broken
// links, case collisions, orphans, and unlinked mentions.
func (v *Validator) checkGraph() []Violation {
	var out []Violation

	seen := make(map[string]struct{})
	for _, doc := range v.ix.Docs {
		if doc.ID.Kind == ident.KindNone {
			continue
		}
		canon := doc.ID.String()
		if _, done := seen[canon]; done {
			continue
		}
		seen[canon] = struct{}{}
		declaring := v.ix.DeclaredBy(doc.ID)
		if len(declaring) < 2 {
			continue
		}
		paths := make([]string, len(declaring))
		for i, d := range declaring {
			paths[i] = d.RelPath
		}
		sort.Strings(paths)
		out = append(out, Violation{
			Category: DuplicateID,
			Severity: SeverityError,
			Path:     paths[0],
			Message:  fmt.Sprintf("identifier %s declared by %s", canon, strings.Join(paths, ", ")),
			Actual:   canon,
		})
	}

	for _, doc := range v.ix.Docs {
		if doc.Parsed == nil || v.skipped(doc.RelPath) {
			continue
		}
		for _, link := range doc.Parsed.Links {
			if link.Loc == parser.LocFrontmatter {
				continue
			}
			res, ok := v.ix.Resolve(link.Target, doc.Dir())
			if !ok {
				out = append(out, Violation{
					Category: BrokenLink,
					Severity: SeverityWarning,
					Path:     doc.RelPath,
					Line:     link.Line,
					Message:  fmt.Sprintf("link target not found: %s", link.Target),
					Actual:   link.Target,
				})
				continue
			}
			if expected := recasedLink(link, res); expected != link.Literal {
				out = append(out, Violation{
					Category: MiscasedLink,
					Severity: SeverityWarning,
					Path:     doc.RelPath,
					Line:     link.Line,
					Message:  fmt.Sprintf("link case does not match its target %s", res.Key),
					Actual:   link.Literal,
					Expected: expected,
					Loc:      link.Loc,
					Start:    link.Start,
					End:      link.End,
					Fixable:  true,
				})
			}
		}
	}

	collisions := v.ix.FoldCollisions()
	keys := make([]string, 0, len(collisions))
	for k := range collisions {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, key := range keys {
		docs := collisions[key]
		paths := make([]string, len(docs))
		for i, d := range docs {
			paths[i] = d.RelPath
		}
		sort.Strings(paths)
		out = append(out, Violation{
			Category: CaseCollision,
			Severity: SeverityWarning,
			Path:     paths[0],
			Message:  fmt.Sprintf("key %q collides case-insensitively: %s", key, strings.Join(paths, ", ")),
			Actual:   key,
		})
	}

	for _, doc := range v.ix.Docs {
		if doc.Kind == corpus.KindNone || doc.Parsed == nil || v.skipped(doc.RelPath) {
			continue
		}
		if v.isEntryPoint(doc) || v.ix.Inbound(doc.RelPath) > 0 {
			continue
		}
		out = append(out, Violation{
			Category: Orphan,
			Severity: SeverityInfo,
			Path:     doc.RelPath,
			Message:  "no inbound links; deliberate scratch documents can be ignored",
		})
	}

	out = append(out, v.checkMentions()...)
	return out
}

// recasedLink renders a link's literal with its target replaced by the
// canonical spelling. Equal output means the reference already matches.
func recasedLink(link parser.Link, res corpus.Resolution) string {
	if !res.CaseFolded {
		return link.Literal
	}
	if link.Form == parser.FormMarkdown {
		return wikilink.Markdown(link.Display, res.Key)
	}
	return wikilink.Wiki(res.Key, link.Display)
}

func (v *Validator) isEntryPoint(doc *corpus.Document) bool {
	base := path.Base(doc.RelPath)
	if _, ok := v.entry[base]; ok {
		return true
	}
	return strings.HasSuffix(doc.Stem(), "_index")
}

// checkMentions finds bare identifier mentions whose target exists, the
// finding the fixer upgrades to links.
func (v *Validator) checkMentions() []Violation {
	var out []Violation
	for _, doc := range v.ix.Docs {
		if doc.Parsed == nil || v.skipped(doc.RelPath) {
			continue
		}
		for _, m := range doc.Parsed.Mentions {
			target, ok := v.ix.ByIdent(m.ID)
			if !ok || target == doc {
				continue
			}
			out = append(out, Violation{
				Category: UnlinkedMention,
				Severity: SeverityInfo,
				Path:     doc.RelPath,
				Line:     m.Line,
				Message:  fmt.Sprintf("bare mention of %s can be linked", m.ID),
				Actual:   m.Literal,
				Expected: m.ID.String(),
				Loc:      m.Loc,
				Start:    m.Start,
				End:      m.End,
				Fixable:  true,
			})
		}
	}
	return out
}
