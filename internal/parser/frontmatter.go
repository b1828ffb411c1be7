// Package parser handles parsing Pyrite markdown documents: frontmatter,
// body links, bare identifier mentions, and table structure.
package parser

import (
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Field is one frontmatter entry. Order of fields matches the file.
type Field struct {
	Key string

	// Value is the scalar value, or "" for lists and nested mappings.
	Value string

	// List holds the items of a sequence value, nil otherwise.
	List []string

	// Line is the 1-indexed file line the key appears on.
	Line int
}

// Frontmatter is the parsed leading metadata block of a document.
type Frontmatter struct {
	// Fields in file order.
	Fields []Field

	// EndLine is the 1-indexed line of the closing delimiter.
	EndLine int
}

// Bounds returns the indices (0-based) of the opening and closing frontmatter
// delimiter lines. Frontmatter is only detected when the first line is '---';
// an unclosed block yields endLine == -1.
func Bounds(lines []string) (startLine, endLine int, ok bool) {
	if len(lines) == 0 || strings.TrimSpace(lines[0]) != "---" {
		return 0, -1, false
	}
	for i := 1; i < len(lines); i++ {
		if strings.TrimSpace(lines[i]) == "---" {
			return 0, i, true
		}
	}
	return 0, -1, true
}

// ParseFrontmatter parses the YAML frontmatter from document lines.
// Returns (nil, nil) when the document has no frontmatter. Key order is
// preserved so the fixer can rewrite single lines without disturbing the rest.
func ParseFrontmatter(lines []string) (*Frontmatter, error) {
	_, end, ok := Bounds(lines)
	if !ok || end == -1 {
		if ok {
			return nil, fmt.Errorf("frontmatter not closed")
		}
		return nil, nil
	}

	raw := strings.Join(lines[1:end], "\n")

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(raw), &root); err != nil {
		return nil, fmt.Errorf("invalid frontmatter YAML: %w", err)
	}

	fm := &Frontmatter{EndLine: end + 1}

	// Empty or comment-only frontmatter decodes to a nil document.
	if len(root.Content) == 0 {
		return fm, nil
	}
	mapping := root.Content[0]
	if mapping.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("frontmatter is not a key/value mapping")
	}

	for i := 0; i+1 < len(mapping.Content); i += 2 {
		keyNode, valNode := mapping.Content[i], mapping.Content[i+1]
		f := Field{
			Key: keyNode.Value,
			// Node lines are 1-based within the YAML text, which starts on
			// file line 2 (after the opening delimiter).
			Line: keyNode.Line + 1,
		}
		switch valNode.Kind {
		case yaml.ScalarNode:
			f.Value = valNode.Value
		case yaml.SequenceNode:
			for _, item := range valNode.Content {
				if item.Kind == yaml.ScalarNode {
					f.List = append(f.List, item.Value)
				}
			}
		}
		fm.Fields = append(fm.Fields, f)
	}

	return fm, nil
}

// Get returns the scalar value of a key.
func (fm *Frontmatter) Get(key string) (string, bool) {
	if fm == nil {
		return "", false
	}
	for _, f := range fm.Fields {
		if f.Key == key {
			return f.Value, f.List == nil
		}
	}
	return "", false
}

// Has reports whether a key is present, scalar or not.
func (fm *Frontmatter) Has(key string) bool {
	if fm == nil {
		return false
	}
	for _, f := range fm.Fields {
		if f.Key == key {
			return true
		}
	}
	return false
}
