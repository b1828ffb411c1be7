package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/ui"
)

var (
	idParent string
	idNumber int
	idJSON   bool
)

var idCmd = &cobra.Command{
	Use:   "id",
	Short: "Generate, parse, and validate identifiers",
}

var idWorkEffortCmd = &cobra.Command{
	Use:   "work-effort",
	Short: "Generate a new work effort identifier",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printID(ident.NewWorkEffort(time.Now()))
	},
}

var idTicketCmd = &cobra.Command{
	Use:   "ticket",
	Short: "Generate a new ticket identifier under a parent work effort",
	RunE: func(cmd *cobra.Command, args []string) error {
		parent, err := ident.Parse(idParent)
		if err != nil {
			return fmt.Errorf("--parent: %w", err)
		}

		seq := idNumber
		if seq == 0 {
			seq = nextTicketSequence(parent)
		}
		id, err := ident.NewTicket(parent, seq)
		if err != nil {
			return err
		}
		return printID(id)
	},
}

var idCheckpointCmd = &cobra.Command{
	Use:   "checkpoint",
	Short: "Generate a checkpoint identifier for the current time",
	RunE: func(cmd *cobra.Command, args []string) error {
		return printID(ident.NewCheckpoint(time.Now()))
	},
}

var idParseCmd = &cobra.Command{
	Use:   "parse <id>",
	Short: "Parse an identifier into its components",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := ident.Parse(args[0])
		if err != nil {
			return err
		}
		if idJSON {
			return printIDJSON(id)
		}
		fmt.Printf("kind: %s\n", id.Kind)
		fmt.Printf("canonical: %s\n", id)
		if d := id.DatePart(); d != "" {
			fmt.Printf("date: %s\n", id.Date.Format("2006-01-02"))
		}
		switch id.Kind {
		case ident.KindWorkEffort:
			fmt.Printf("suffix: %s\n", id.Suffix)
		case ident.KindTicket:
			fmt.Printf("sequence: %d\n", id.Seq)
			if id.Legacy {
				fmt.Printf("legacy: true (parent suffix %s)\n", id.Suffix)
			}
		case ident.KindCheckpoint:
			fmt.Printf("time: %s\n", id.Clock)
		}
		return nil
	},
}

var idValidateCmd = &cobra.Command{
	Use:   "validate <id>",
	Short: "Check an identifier against the strict storage grammar",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ident.Validate(args[0], ident.KindNone); err != nil {
			fmt.Println(ui.Errorf("%v", err))
			os.Exit(1)
		}
		fmt.Println(ui.Success(args[0]))
		return nil
	},
}

func init() {
	idTicketCmd.Flags().StringVar(&idParent, "parent", "", "Parent work effort identifier (required)")
	idTicketCmd.Flags().IntVar(&idNumber, "number", 0, "Explicit sequence number (defaults to next unused)")
	_ = idTicketCmd.MarkFlagRequired("parent")

	idCmd.PersistentFlags().BoolVar(&idJSON, "json", false, "Output in JSON format")

	idCmd.AddCommand(idWorkEffortCmd, idTicketCmd, idCheckpointCmd, idParseCmd, idValidateCmd)
	rootCmd.AddCommand(idCmd)
}

func printID(id ident.ID) error {
	if idJSON {
		return printIDJSON(id)
	}
	fmt.Println(id)
	return nil
}

func printIDJSON(id ident.ID) error {
	out := map[string]any{
		"id":   id.String(),
		"kind": id.Kind.String(),
	}
	if d := id.DatePart(); d != "" {
		out["date"] = id.Date.Format("2006-01-02")
	}
	if id.Kind == ident.KindTicket {
		out["sequence"] = id.Seq
		out["legacy"] = id.Legacy
	}
	enc := json.NewEncoder(os.Stdout)
	return enc.Encode(out)
}

// nextTicketSequence scans the parent's tickets directory for the highest
// used sequence. Falls back to 1 when the parent folder cannot be found.
func nextTicketSequence(parent ident.ID) int {
	ix, err := buildIndex(resolvedRoot)
	if err != nil {
		return 1
	}
	doc, ok := ix.ByIdent(parent)
	if !ok {
		return 1
	}
	ticketsDir := filepath.Join(filepath.Dir(doc.Path), "tickets")
	return ident.NextSequence(ticketsDir, parent.DatePart())
}
