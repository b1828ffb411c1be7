// Package corpus builds the in-memory index of a document tree: one walk,
// lookup tables for reference resolution, declared identifiers, and the
// inbound link graph. The index is rebuilt on every invocation; nothing is
// persisted.
package corpus

import (
	"fmt"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/parser"
)

// Kind classifies a document by its path shape, decided once at index time.
type Kind int

const (
	KindNone Kind = iota
	KindGeneric
	KindWorkEffortIndex
	KindTicket
)

func (k Kind) String() string {
	switch k {
	case KindWorkEffortIndex:
		return "work-effort-index"
	case KindTicket:
		return "ticket"
	case KindGeneric:
		return "generic"
	default:
		return "none"
	}
}

// Document is one indexed markdown file.
type Document struct {
	Path    string // absolute
	RelPath string // slash-separated, relative to the corpus root
	Kind    Kind
	Parsed  *parser.Document

	// ID is the frontmatter-declared identifier; zero Kind when the
	// document declares none (or an unparseable one, kept in RawID).
	ID    ident.ID
	RawID string

	// Err is a read or parse failure. Parsed may still be non-nil for
	// frontmatter errors, where the body scan survives.
	Err error
}

// Stem is the filename without directory or extension.
func (d *Document) Stem() string {
	base := path.Base(d.RelPath)
	return strings.TrimSuffix(base, ".md")
}

// Dir is the document's directory, slash-separated, "" at the root.
func (d *Document) Dir() string {
	dir := path.Dir(d.RelPath)
	if dir == "." {
		return ""
	}
	return dir
}

// FileID is the identifier implied by the filename: the stem's prefix up to
// the first underscore (or the whole stem) when it parses.
func (d *Document) FileID() (ident.ID, bool) {
	stem := d.Stem()
	prefix := stem
	if i := strings.Index(stem, "_"); i >= 0 {
		prefix = stem[:i]
	}
	id, err := ident.Parse(prefix)
	if err != nil {
		return ident.ID{}, false
	}
	return id, true
}

// Options configures index construction.
type Options struct {
	// WorkRoots are the directories (relative to root) scanned by the
	// structure validator for work-effort folders. Defaults to
	// ["_work_efforts"].
	WorkRoots []string

	// Logger receives per-file debug tracing. Nil discards.
	Logger *slog.Logger
}

// Index is the in-memory corpus index.
type Index struct {
	Root      string
	WorkRoots []string
	Docs      []*Document

	keys     map[string][]*Document         // lookup key (exact case) -> docs
	fold     map[string][]foldEntry         // lowercased key -> exact spellings
	declared map[string][]*Document         // frontmatter id -> declaring docs
	byIdent  map[string]*Document           // canonical id -> owning doc
	inbound  map[string]map[string]struct{} // target relpath -> source relpaths
	log      *slog.Logger
}

type foldEntry struct {
	key string
	doc *Document
}

// Build walks root once and constructs the index. Unreadable files become
// documents carrying Err so the validator can report them; only a failure of
// the walk itself is returned as an error.
func Build(root string, opts Options) (*Index, error) {
	log := opts.Logger
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	workRoots := opts.WorkRoots
	if len(workRoots) == 0 {
		workRoots = []string{"_work_efforts"}
	}

	ix := &Index{
		Root:      root,
		WorkRoots: workRoots,
		keys:      make(map[string][]*Document),
		fold:      make(map[string][]foldEntry),
		declared:  make(map[string][]*Document),
		byIdent:   make(map[string]*Document),
		inbound:   make(map[string]map[string]struct{}),
		log:       log,
	}

	err := WalkMarkdownFiles(root, func(result WalkResult) error {
		doc := &Document{
			Path:    result.Path,
			RelPath: result.RelativePath,
			Kind:    classify(result.RelativePath),
			Parsed:  result.Document,
			Err:     result.Error,
		}
		if result.Error != nil {
			log.Debug("file error", "path", result.RelativePath, "err", result.Error)
		}
		if doc.Parsed != nil {
			if raw, ok := doc.Parsed.Frontmatter.Get("id"); ok && raw != "" {
				doc.RawID = raw
				if id, err := ident.Parse(raw); err == nil {
					doc.ID = id
				}
			}
		}
		ix.add(doc)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}

	ix.linkGraph()
	log.Debug("index built", "root", root, "documents", len(ix.Docs))
	return ix, nil
}

func (ix *Index) add(doc *Document) {
	ix.Docs = append(ix.Docs, doc)

	for _, key := range lookupKeys(doc) {
		ix.keys[key] = append(ix.keys[key], doc)
		folded := strings.ToLower(key)
		ix.fold[folded] = append(ix.fold[folded], foldEntry{key: key, doc: doc})
	}

	if doc.ID.Kind != ident.KindNone {
		canon := doc.ID.String()
		ix.declared[canon] = append(ix.declared[canon], doc)
		if _, taken := ix.byIdent[canon]; !taken {
			ix.byIdent[canon] = doc
		}
	}
	if fileID, ok := doc.FileID(); ok {
		// Filename wins over a (possibly mismatched) frontmatter claim.
		ix.byIdent[fileID.String()] = doc
	}
}

// lookupKeys are the candidate keys a reference can hit: relative path with
// and without extension, and for nested documents the bare stem in both
// forms, so an extension-bearing link resolves at any depth.
func lookupKeys(doc *Document) []string {
	stem := doc.Stem()
	noExt := strings.TrimSuffix(doc.RelPath, ".md")
	keys := []string{doc.RelPath, noExt}
	if stem != noExt {
		keys = append(keys, stem, stem+".md")
	}
	return keys
}

// classify decides a document's kind from its path shape alone.
func classify(relPath string) Kind {
	base := path.Base(relPath)
	dir := path.Base(path.Dir(relPath))

	switch {
	case strings.HasSuffix(base, "_index.md") && (strings.HasPrefix(dir, "WE-") || strings.HasPrefix(base, "WE-")):
		return KindWorkEffortIndex
	case dir == "tickets" || strings.HasPrefix(base, "TKT-"):
		return KindTicket
	case strings.HasSuffix(base, ".md"):
		return KindGeneric
	default:
		return KindNone
	}
}

// linkGraph resolves every body link once and records inbound references.
func (ix *Index) linkGraph() {
	for _, doc := range ix.Docs {
		if doc.Parsed == nil {
			continue
		}
		for _, link := range doc.Parsed.Links {
			if link.Loc == parser.LocFrontmatter {
				continue
			}
			res, ok := ix.Resolve(link.Target, doc.Dir())
			if !ok || res.Doc == doc {
				continue
			}
			set := ix.inbound[res.Doc.RelPath]
			if set == nil {
				set = make(map[string]struct{})
				ix.inbound[res.Doc.RelPath] = set
			}
			set[doc.RelPath] = struct{}{}
		}
	}
}

// ByPath returns the document at a relative path.
func (ix *Index) ByPath(relPath string) (*Document, bool) {
	for _, doc := range ix.keys[relPath] {
		if doc.RelPath == relPath {
			return doc, true
		}
	}
	return nil, false
}

// Inbound returns the number of distinct documents linking to relPath.
func (ix *Index) Inbound(relPath string) int {
	return len(ix.inbound[relPath])
}

// DeclaredBy returns every document whose frontmatter declares id.
func (ix *Index) DeclaredBy(id ident.ID) []*Document {
	return ix.declared[id.String()]
}

// ByIdent returns the document owning an identifier, by filename first and
// frontmatter declaration second.
func (ix *Index) ByIdent(id ident.ID) (*Document, bool) {
	doc, ok := ix.byIdent[id.String()]
	return doc, ok
}

// FoldCollisions returns keys that collide only case-insensitively: the same
// folded key spelled differently by different documents.
func (ix *Index) FoldCollisions() map[string][]*Document {
	// Group the with- and without-extension forms of each key so one
	// colliding pair is reported once.
	groups := make(map[string][]foldEntry)
	for folded, entries := range ix.fold {
		g := strings.TrimSuffix(folded, ".md")
		groups[g] = append(groups[g], entries...)
	}

	out := make(map[string][]*Document)
	for folded, entries := range groups {
		if len(entries) < 2 {
			continue
		}
		spellings := make(map[string]struct{})
		docs := make(map[string]*Document)
		for _, e := range entries {
			spellings[strings.TrimSuffix(e.key, ".md")] = struct{}{}
			docs[e.doc.RelPath] = e.doc
		}
		if len(spellings) < 2 || len(docs) < 2 {
			continue
		}
		var list []*Document
		for _, d := range docs {
			list = append(list, d)
		}
		out[folded] = list
	}
	return out
}
