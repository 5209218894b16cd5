// ABOUTME: Shared setup and formatting helpers for CLI commands
// ABOUTME: Consolidates config loading and service wiring used by every command
package commands

import (
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"github.com/marcus/docchat/internal/answer"
	"github.com/marcus/docchat/internal/chunker"
	"github.com/marcus/docchat/internal/config"
	"github.com/marcus/docchat/internal/ingest"
	"github.com/marcus/docchat/internal/llm"
	"github.com/marcus/docchat/internal/storage/sqlite"
)

// loadConfig loads .env (if present) and the environment configuration
func loadConfig() (*config.Config, error) {
	if err := godotenv.Load(); err != nil && verbose {
		log.Printf("No .env file found: %v", err)
	}
	return config.Load()
}

// openStore opens the SQLite database and builds the chunk store
func openStore(cfg *config.Config) (*sqlite.DB, *sqlite.Store, error) {
	db, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	store := sqlite.NewStore(db,
		sqlite.WithBatchSize(cfg.IngestBatchSize),
		sqlite.WithDimension(cfg.VectorDimension),
	)
	return db, store, nil
}

// buildPipeline wires the ingest pipeline from config
func buildPipeline(cfg *config.Config, client *llm.Client, store *sqlite.Store) (*ingest.Pipeline, error) {
	splitter, err := chunker.New(cfg.ChunkSize, cfg.ChunkOverlap)
	if err != nil {
		return nil, fmt.Errorf("building splitter: %w", err)
	}
	return ingest.New(splitter, client, store, cfg.MinTextLength), nil
}

// buildStreamer wires the answer streamer from config
func buildStreamer(cfg *config.Config, client *llm.Client, store *sqlite.Store) *answer.Streamer {
	return answer.NewStreamer(client, store, client, answer.Options{
		TopK:              cfg.TopK,
		KeepAliveInterval: cfg.KeepAliveInterval,
		MaxStreamDuration: cfg.MaxStreamDuration,
	})
}

// truncate shortens a string to maxLen runes, adding "..." if truncated
func truncate(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

// formatTime formats a time for display
func formatTime(t time.Time) string {
	now := time.Now()
	diff := now.Sub(t)

	if diff < time.Minute {
		return "just now"
	} else if diff < time.Hour {
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	} else if diff < 24*time.Hour {
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	} else if diff < 7*24*time.Hour {
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	}
	return t.Format("2006-01-02")
}
