// ABOUTME: List command shows all ingested documents
// ABOUTME: Renders a table or JSON of document ids, filenames, and ages
package commands

import (
	"encoding/json"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var listFormat string

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List ingested documents",
		Long: `List all ingested documents, newest first.

Examples:
  docchat list
  docchat list --format json`,
		RunE: runList,
	}

	cmd.Flags().StringVar(&listFormat, "format", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	docs, err := store.ListDocuments(cmd.Context())
	if err != nil {
		return fmt.Errorf("listing documents: %w", err)
	}

	if listFormat == "json" {
		data, err := json.MarshalIndent(docs, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding documents: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(data))
		return nil
	}

	if len(docs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No documents ingested yet. Try: docchat ingest <file.pdf>")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tFILENAME\tINGESTED")
	for _, doc := range docs {
		fmt.Fprintf(w, "%s\t%s\t%s\n", doc.ID, truncate(doc.Filename, 40), formatTime(doc.CreatedAt))
	}
	return w.Flush()
}
