package corpus

import (
	"path"
	"strings"

	"github.com/pyritehq/pyrite/internal/ident"
)

// Resolution is a successful reference lookup.
type Resolution struct {
	Doc *Document

	// Key is the candidate key that matched.
	Key string

	// CaseFolded is true when the match needed case-insensitive fallback;
	// the fixer normalizes such references to the canonical spelling.
	CaseFolded bool
}

// candidates lists the lookup keys for a reference, in resolution order:
// exact, with extension, as an index stem, and relative to the linking
// document's directory.
func candidates(target, fromDir string) []string {
	target = strings.TrimSpace(target)
	out := []string{
		target,
		target + ".md",
		target + "_index",
		target + "_index.md",
	}
	if fromDir != "" && !strings.Contains(target, "/") {
		out = append(out, path.Join(fromDir, target))
	}
	return out
}

// Resolve looks a reference target up against the index. fromDir is the
// linking document's directory, used for the relative candidate. Candidates
// are tried case-sensitively first; a case-insensitive pass runs only when
// all exact forms miss. Targets shaped like identifiers additionally resolve
// through the identifier table, so [[TKT-260101-001]] finds
// TKT-260101-001_fix_login.md.
func (ix *Index) Resolve(target, fromDir string) (Resolution, bool) {
	cands := candidates(target, fromDir)

	for _, key := range cands {
		if docs := ix.keys[key]; len(docs) > 0 {
			return Resolution{Doc: pick(docs, key), Key: key}, true
		}
	}

	if id, err := ident.Parse(target); err == nil {
		if doc, ok := ix.byIdent[id.String()]; ok {
			return Resolution{Doc: doc, Key: id.String(), CaseFolded: target != id.String()}, true
		}
	}

	for _, key := range cands {
		entries := ix.fold[strings.ToLower(key)]
		if len(entries) == 0 {
			continue
		}
		docs := make([]*Document, len(entries))
		for i, e := range entries {
			docs[i] = e.doc
		}
		return Resolution{Doc: pick(docs, key), Key: entries[0].key, CaseFolded: true}, true
	}

	return Resolution{}, false
}

// pick disambiguates documents sharing a key: a full-path match wins, then
// walk order keeps the choice deterministic.
func pick(docs []*Document, key string) *Document {
	if len(docs) == 1 {
		return docs[0]
	}
	for _, d := range docs {
		if d.RelPath == key || strings.TrimSuffix(d.RelPath, ".md") == key {
			return d
		}
	}
	return docs[0]
}
