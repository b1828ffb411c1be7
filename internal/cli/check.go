package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyritehq/pyrite/internal/check"
	"github.com/pyritehq/pyrite/internal/ui"
)

var (
	checkScope  string
	checkStrict bool
	checkJSON   bool
)

var checkCmd = &cobra.Command{
	Use:   "check [path]",
	Short: "Validate the corpus",
	Long: `Checks naming conventions, frontmatter fields, identifier declarations,
and the link graph. Read-only; exits non-zero when errors are found.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := corpusRoot(args, checkScope)
		if err != nil {
			return err
		}

		ix, err := buildIndex(root)
		if err != nil {
			return err
		}
		validator := check.NewValidator(ix, check.Options{
			EntryPoints: cfg.EntryPoints,
			Logger:      logger,
		})
		violations := validator.Run()

		errors := check.Count(violations, check.SeverityError)
		warnings := check.Count(violations, check.SeverityWarning)
		infos := check.Count(violations, check.SeverityInfo)

		if checkJSON {
			if err := printViolationsJSON(violations); err != nil {
				return err
			}
		} else {
			for _, v := range violations {
				fmt.Println(ui.Violation(v))
			}
			if len(violations) == 0 {
				fmt.Println(ui.Successf("no issues found in %d documents", len(ix.Docs)))
			} else {
				fmt.Println()
				fmt.Println(ui.Summary(errors, warnings, infos))
			}
		}

		if errors > 0 || (checkStrict && warnings > 0) {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	checkCmd.Flags().StringVar(&checkScope, "scope", "", "Restrict checking to a subtree of the corpus")
	checkCmd.Flags().BoolVar(&checkStrict, "strict", false, "Treat warnings as errors")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output in JSON format (for agent/script use)")
	rootCmd.AddCommand(checkCmd)
}

type violationJSON struct {
	Category string `json:"category"`
	Severity string `json:"severity"`
	Path     string `json:"path"`
	Line     int    `json:"line,omitempty"`
	Message  string `json:"message"`
	Actual   string `json:"actual,omitempty"`
	Expected string `json:"expected,omitempty"`
	Fixable  bool   `json:"fixable"`
}

func printViolationsJSON(violations []check.Violation) error {
	out := make([]violationJSON, 0, len(violations))
	for _, v := range violations {
		out = append(out, violationJSON{
			Category: string(v.Category),
			Severity: v.Severity.String(),
			Path:     v.Path,
			Line:     v.Line,
			Message:  v.Message,
			Actual:   v.Actual,
			Expected: v.Expected,
			Fixable:  v.Fixable,
		})
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
