package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/pyritehq/pyrite/internal/atomicfile"
	"github.com/pyritehq/pyrite/internal/corpus"
	"github.com/pyritehq/pyrite/internal/dates"
	"github.com/pyritehq/pyrite/internal/ident"
	"github.com/pyritehq/pyrite/internal/slugs"
	"github.com/pyritehq/pyrite/internal/ui"
)

var newParent string

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Create conformant documents",
	Long: `Creates work efforts and tickets whose folder names, file names, and
frontmatter already satisfy the naming and field rules, so no violation is
introduced.`,
}

var newWorkEffortCmd = &cobra.Command{
	Use:   "work-effort <title>",
	Short: "Create a work effort folder with its index file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		desc := slugs.Description(title)
		if desc == "" {
			return fmt.Errorf("title %q yields an empty description", title)
		}

		now := time.Now()
		id := ident.NewWorkEffort(now)

		workRoot := "_work_efforts"
		if len(cfg.WorkRoots) > 0 {
			workRoot = cfg.WorkRoots[0]
		}
		folder := filepath.Join(resolvedRoot, workRoot, corpus.FolderName(id, desc))
		if err := os.MkdirAll(filepath.Join(folder, "tickets"), 0755); err != nil {
			return err
		}

		content := fmt.Sprintf(
			"---\nid: %s\ntitle: %s\nstatus: active\ncreated: %s\n---\n# %s\n",
			id, title, dates.Format(now), title)
		indexPath := filepath.Join(folder, corpus.IndexName(id))
		if err := atomicfile.WriteFile(indexPath, []byte(content), 0644); err != nil {
			return err
		}

		fmt.Println(ui.Successf("created %s", ui.FilePath(indexPath)))
		fmt.Println(id)
		return nil
	},
}

var newTicketCmd = &cobra.Command{
	Use:   "ticket <title>",
	Short: "Create a ticket under a parent work effort",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title := args[0]
		desc := slugs.Description(title)
		if desc == "" {
			return fmt.Errorf("title %q yields an empty description", title)
		}

		parent, err := ident.Parse(newParent)
		if err != nil {
			return fmt.Errorf("--parent: %w", err)
		}
		ix, err := buildIndex(resolvedRoot)
		if err != nil {
			return err
		}
		parentDoc, ok := ix.ByIdent(parent)
		if !ok {
			return fmt.Errorf("parent %s not found in corpus", parent)
		}

		ticketsDir := filepath.Join(filepath.Dir(parentDoc.Path), "tickets")
		seq := ident.NextSequence(ticketsDir, parent.DatePart())
		id, err := ident.NewTicket(parent, seq)
		if err != nil {
			return err
		}

		if err := os.MkdirAll(ticketsDir, 0755); err != nil {
			return err
		}
		content := fmt.Sprintf(
			"---\nid: %s\ntitle: %s\nstatus: open\nparent: %s\n---\n# %s\n\nPart of [[%s]].\n",
			id, title, parent, title, parent)
		ticketPath := filepath.Join(ticketsDir, corpus.TicketName(id, desc))
		if err := atomicfile.WriteFile(ticketPath, []byte(content), 0644); err != nil {
			return err
		}
		// Link the ticket from the parent index so it starts with an
		// inbound reference.
		if err := appendTicketLink(parentDoc.Path, id); err != nil {
			return err
		}

		fmt.Println(ui.Successf("created %s", ui.FilePath(ticketPath)))
		fmt.Println(id)
		return nil
	},
}

func appendTicketLink(indexPath string, id ident.ID) error {
	data, err := os.ReadFile(indexPath)
	if err != nil {
		return err
	}
	if len(data) > 0 && data[len(data)-1] != '\n' {
		data = append(data, '\n')
	}
	data = append(data, []byte(fmt.Sprintf("- [[%s]]\n", id))...)
	return atomicfile.WriteFile(indexPath, data, 0644)
}

func init() {
	newTicketCmd.Flags().StringVar(&newParent, "parent", "", "Parent work effort identifier (required)")
	_ = newTicketCmd.MarkFlagRequired("parent")

	newCmd.AddCommand(newWorkEffortCmd, newTicketCmd)
	rootCmd.AddCommand(newCmd)
}
