// ABOUTME: Show command prints one document and its chunks
// ABOUTME: Useful for inspecting what the retriever has to work with
package commands

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/marcus/docchat/internal/storage"
)

var showChunks bool

// NewShowCmd creates the show command
func NewShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <document-id>",
		Short: "Show a document's details",
		Long: `Show one ingested document: filename, ingest time, and its chunks.

Examples:
  docchat show doc_4f3a...
  docchat show doc_4f3a... --chunks`,
		Args: cobra.ExactArgs(1),
		RunE: runShow,
	}

	cmd.Flags().BoolVar(&showChunks, "chunks", false, "Print full chunk contents")

	return cmd
}

func runShow(cmd *cobra.Command, args []string) error {
	id := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	doc, err := store.GetDocument(cmd.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return fmt.Errorf("no document with id %q", id)
		}
		return fmt.Errorf("getting document: %w", err)
	}

	chunks, err := store.GetChunkContents(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("getting chunks: %w", err)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "ID:       %s\n", doc.ID)
	fmt.Fprintf(out, "Filename: %s\n", doc.Filename)
	fmt.Fprintf(out, "Ingested: %s\n", doc.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Chunks:   %d\n", len(chunks))

	if showChunks {
		for _, chunk := range chunks {
			fmt.Fprintf(out, "\n--- chunk %d ---\n%s\n", chunk.Position, chunk.Content)
		}
	} else {
		for _, chunk := range chunks {
			fmt.Fprintf(out, "  [%d] %s\n", chunk.Position, truncate(chunk.Content, 70))
		}
	}

	return nil
}
