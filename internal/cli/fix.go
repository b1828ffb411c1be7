package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pyritehq/pyrite/internal/check"
	"github.com/pyritehq/pyrite/internal/fix"
	"github.com/pyritehq/pyrite/internal/ui"
)

var (
	fixScope  string
	fixDryRun bool
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Apply safe automatic repairs",
	Long: `Applies the whitelist of idempotent repairs: renames misnamed files,
rewrites mismatched frontmatter ids, strips wikilinks from frontmatter,
upgrades bare identifier mentions to links, normalizes miscased link
targets, and inserts missing parent back-links. Re-validates afterwards;
the exit code reflects remaining errors.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := corpusRoot(args, fixScope)
		if err != nil {
			return err
		}

		ix, err := buildIndex(root)
		if err != nil {
			return err
		}
		opts := check.Options{EntryPoints: cfg.EntryPoints, Logger: logger}
		violations := check.NewValidator(ix, opts).Run()

		fixer := fix.New(ix, fix.Options{DryRun: fixDryRun, Logger: logger})
		res, err := fixer.Apply(violations)
		if err != nil {
			return err
		}

		if len(res.Applied) > 0 {
			if fixDryRun {
				fmt.Println(ui.Header("planned fixes"))
			} else {
				fmt.Println(ui.Header("applied fixes"))
			}
		}
		for _, a := range res.Applied {
			if fixDryRun {
				fmt.Println(ui.Hint(a.String()))
			} else {
				fmt.Println(ui.Success(a.String()))
			}
		}
		for _, f := range res.Failed {
			fmt.Println(ui.Errorf("%s: %v", f.Violation.Path, f.Err))
		}

		if fixDryRun {
			fmt.Printf("%d fixes planned, nothing written\n", len(res.Applied))
			return nil
		}

		// Re-validate against the mutated tree to confirm convergence.
		ix, err = buildIndex(root)
		if err != nil {
			return err
		}
		remaining := check.NewValidator(ix, opts).Run()
		errors := check.Count(remaining, check.SeverityError)

		fmt.Printf("%d fixes applied, %d failed, %d errors remaining\n",
			len(res.Applied), len(res.Failed), errors)

		if errors > 0 || len(res.Failed) > 0 {
			os.Exit(1)
		}
		return nil
	},
}

func init() {
	fixCmd.Flags().StringVar(&fixScope, "scope", "", "Restrict fixing to a subtree of the corpus")
	fixCmd.Flags().BoolVar(&fixDryRun, "dry-run", false, "Print planned actions without writing")
	rootCmd.AddCommand(fixCmd)
}
