// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/pyritehq/pyrite/internal/config"
	"github.com/pyritehq/pyrite/internal/corpus"
	"github.com/pyritehq/pyrite/internal/ui"
)

var (
	// Global flags
	rootFlag string
	verbose  bool

	// Resolved values
	resolvedRoot string
	cfg          *config.Config
	logger       *slog.Logger
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "pyr",
	Short: "Pyrite - referential integrity for markdown work tracking",
	Long: `Pyrite keeps a corpus of markdown work-tracking documents internally
consistent: typed identifiers, naming conventions, frontmatter fields, and
the wikilink graph. It validates, reports, and applies a bounded set of
safe automatic repairs.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		if cmd.Parent() != nil && cmd.Parent().Name() == "completion" {
			return nil
		}

		logger = newLogger()

		root := rootFlag
		if root == "" {
			root = "."
		}
		abs, err := filepath.Abs(root)
		if err != nil {
			return fmt.Errorf("resolving corpus root: %w", err)
		}
		resolvedRoot = abs

		cfg, err = config.Load(resolvedRoot)
		if err != nil {
			return err
		}
		ui.ConfigureTheme(cfg.UI.Accent, cfg.UI.CodeTheme)
		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&rootFlag, "root", "r", "", "Path to the corpus root (defaults to the working directory)")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug tracing")
}

func newLogger() *slog.Logger {
	if verbose {
		return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// corpusRoot returns the resolved corpus root, honoring an optional
// positional path argument and the --scope flag.
func corpusRoot(args []string, scope string) (string, error) {
	root := resolvedRoot
	if len(args) > 0 {
		abs, err := filepath.Abs(args[0])
		if err != nil {
			return "", err
		}
		root = abs
	}
	if scope != "" {
		root = filepath.Join(root, scope)
	}
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return "", fmt.Errorf("corpus root not found: %s", root)
	}
	return root, nil
}

// buildIndex constructs the corpus index for a command run.
func buildIndex(root string) (*corpus.Index, error) {
	return corpus.Build(root, corpus.Options{
		WorkRoots: cfg.WorkRoots,
		Logger:    logger,
	})
}
