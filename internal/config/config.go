// Package config handles per-corpus Pyrite configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the optional configuration file at the corpus root.
const FileName = "pyrite.toml"

// Config represents a corpus configuration.
type Config struct {
	// WorkRoots are the directories scanned for work-effort folders.
	WorkRoots []string `toml:"work_roots"`

	// EntryPoints are document basenames exempt from orphan reporting,
	// in addition to *_index.md files.
	EntryPoints []string `toml:"entry_points"`

	// UI controls optional CLI theming preferences.
	UI UIConfig `toml:"ui"`
}

// UIConfig represents optional CLI theming preferences.
type UIConfig struct {
	// Accent is an optional accent color for CLI output and markdown
	// rendering. Supported values are ANSI color codes ("0" to "255") or
	// hex colors ("#RRGGBB").
	Accent string `toml:"accent"`

	// CodeTheme sets the Glamour/Chroma theme used for rendered markdown
	// code blocks. Example values: "monokai", "dracula", "github".
	CodeTheme string `toml:"code_theme"`
}

// Load reads pyrite.toml from the corpus root. A missing file yields the
// zero config; defaults are applied by the consumers.
func Load(root string) (*Config, error) {
	path := filepath.Join(root, FileName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return &Config{}, nil
	}
	return LoadFrom(path)
}

// LoadFrom reads a configuration from a specific path.
func LoadFrom(path string) (*Config, error) {
	var config Config
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	return &config, nil
}
