package parser

import (
	"strings"

	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/wikilink"
)

// Location says where in a document a link or mention was found. Fixes
// differ by location: prose gets wikilinks, table cells get markdown links,
// frontmatter links get stripped.
type Location int

const (
	LocProse Location = iota
	LocTableCell
	LocFrontmatter
)

func (l Location) String() string {
	switch l {
	case LocTableCell:
		return "table-cell"
	case LocFrontmatter:
		return "frontmatter"
	default:
		return "prose"
	}
}

// LinkForm distinguishes [[wikilinks]] from [display](target) links.
type LinkForm int

const (
	FormWiki LinkForm = iota
	FormMarkdown
)

// Link is one resolvable reference found in a document.
type Link struct {
	Target  string
	Display string
	Line    int // 1-indexed
	Loc     Location
	Form    LinkForm
	Start   int // byte offset within the line
	End     int
	Literal string
}

// Mention is a bare identifier in document text, outside any link.
type Mention struct {
	ID      ident.ID
	Literal string
	Line    int // 1-indexed
	Loc     Location
	Start   int
	End     int
}

// Document is a parsed markdown file.
type Document struct {
	Lines       []string
	Frontmatter *Frontmatter
	Links       []Link
	Mentions    []Mention

	// Title is the frontmatter title, or the first H1 heading.
	Title string
}

// Parse splits content into frontmatter and body, classifies lines, and
// extracts every link and bare identifier mention with its position.
// A YAML error in the frontmatter is returned alongside a document that
// still carries the body scan, so callers can report and keep going.
func Parse(content string) (*Document, error) {
	lines := strings.Split(content, "\n")
	doc := &Document{Lines: lines}

	fm, fmErr := ParseFrontmatter(lines)
	doc.Frontmatter = fm

	bodyStart := 0
	if fm != nil {
		bodyStart = fm.EndLine
		// Wikilinks have no meaning in metadata values; find them so the
		// fixer can strip them.
		for i := 1; i < fm.EndLine-1; i++ {
			doc.scanLinks(lines[i], i+1, LocFrontmatter)
		}
	} else if fmErr != nil {
		// Unparseable frontmatter still occupies its block.
		if _, end, ok := Bounds(lines); ok && end != -1 {
			bodyStart = end + 1
		}
	}

	body := lines[bodyStart:]
	inTable := TableLines(body)

	inFence := false
	for i, line := range body {
		if strings.HasPrefix(strings.TrimSpace(line), "```") {
			inFence = !inFence
			continue
		}
		if inFence {
			continue
		}
		loc := LocProse
		if inTable[i] {
			loc = LocTableCell
		}
		lineNo := bodyStart + i + 1
		spans := doc.scanLinks(line, lineNo, loc)
		doc.scanMentions(line, lineNo, loc, spans)
	}

	if title, ok := fm.Get("title"); ok && title != "" {
		doc.Title = title
	} else {
		doc.Title = FirstHeading(strings.Join(body, "\n"))
	}

	return doc, fmErr
}

type span struct{ start, end int }

func (d *Document) scanLinks(line string, lineNo int, loc Location) []span {
	var spans []span
	for _, m := range wikilink.FindAllInLine(line) {
		d.Links = append(d.Links, Link{
			Target:  m.Target,
			Display: m.Display,
			Line:    lineNo,
			Loc:     loc,
			Form:    FormWiki,
			Start:   m.Start,
			End:     m.End,
			Literal: m.Literal,
		})
		spans = append(spans, span{m.Start, m.End})
	}
	for _, m := range wikilink.FindAllMarkdownInLine(line) {
		// External targets are not corpus references.
		if strings.Contains(m.Target, "://") {
			spans = append(spans, span{m.Start, m.End})
			continue
		}
		d.Links = append(d.Links, Link{
			Target:  m.Target,
			Display: m.Display,
			Line:    lineNo,
			Loc:     loc,
			Form:    FormMarkdown,
			Start:   m.Start,
			End:     m.End,
			Literal: m.Literal,
		})
		spans = append(spans, span{m.Start, m.End})
	}
	return spans
}

func (d *Document) scanMentions(line string, lineNo int, loc Location, links []span) {
	for _, m := range ident.FindAllInLine(line) {
		covered := false
		for _, s := range links {
			if m.Start >= s.start && m.End <= s.end {
				covered = true
				break
			}
		}
		if covered {
			continue
		}
		d.Mentions = append(d.Mentions, Mention{
			ID:      m.ID,
			Literal: m.Literal,
			Line:    lineNo,
			Loc:     loc,
			Start:   m.Start,
			End:     m.End,
		})
	}
}
