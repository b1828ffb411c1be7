package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pyritehq/pyrite/internal/ui"
)

var readCmd = &cobra.Command{
	Use:   "read <target>",
	Short: "Render a document to the terminal",
	Long: `Looks a target up through the corpus index using the same resolution
rules as wikilinks, then renders the document body.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ix, err := buildIndex(resolvedRoot)
		if err != nil {
			return err
		}
		res, ok := ix.Resolve(args[0], "")
		if !ok {
			return fmt.Errorf("not found: %s", args[0])
		}

		content, err := os.ReadFile(res.Doc.Path)
		if err != nil {
			return err
		}

		display := ui.NewDisplayContext()
		if !display.IsTTY {
			fmt.Print(string(content))
			return nil
		}

		// Render the body only; frontmatter is metadata, not prose.
		body := string(content)
		if doc := res.Doc.Parsed; doc != nil && doc.Frontmatter != nil {
			body = strings.Join(doc.Lines[doc.Frontmatter.EndLine:], "\n")
		}

		rendered, err := ui.RenderMarkdown(body, display.TermWidth)
		if err != nil {
			return err
		}
		fmt.Print(rendered)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(readCmd)
}
