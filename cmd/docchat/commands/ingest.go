// ABOUTME: Ingest command loads a PDF into the local document store
// ABOUTME: Extracts text, chunks, embeds, and persists from the command line
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/marcus/docchat/internal/extract"
	"github.com/marcus/docchat/internal/llm"
)

// NewIngestCmd creates the ingest command
func NewIngestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest <file.pdf>",
		Short: "Ingest a PDF document",
		Long: `Extract text from a PDF, split it into overlapping chunks,
embed each chunk, and store everything in the local database.`,
		Args: cobra.ExactArgs(1),
		RunE: runIngest,
		Example: `  docchat ingest report.pdf
  docchat ingest ~/papers/attention.pdf`,
	}

	return cmd
}

func runIngest(cmd *cobra.Command, args []string) error {
	path := args[0]

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	db, store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	client, err := llm.NewClient(cfg)
	if err != nil {
		return fmt.Errorf("creating OpenAI client: %w", err)
	}

	pipeline, err := buildPipeline(cfg, client, store)
	if err != nil {
		return err
	}

	text, err := extract.NewPDF().Extract(path)
	if err != nil {
		return fmt.Errorf("extracting text from %s: %w", path, err)
	}

	result, err := pipeline.IngestText(cmd.Context(), filepath.Base(path), text)
	if err != nil {
		return fmt.Errorf("ingesting %s: %w", path, err)
	}

	if !quiet {
		fmt.Fprintf(cmd.OutOrStdout(), "Ingested %s as %s (%d chunks)\n",
			result.Filename, result.DocumentID, result.ChunkCount)
	}

	return nil
}
