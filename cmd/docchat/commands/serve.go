// ABOUTME: Serve command runs the HTTP API
// ABOUTME: Wires storage, OpenAI client, ingest pipeline and streamer behind net/http
package commands

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/marcus/docchat/internal/extract"
	"github.com/marcus/docchat/internal/httpapi"
	"github.com/marcus/docchat/internal/llm"
)

var serveAddr string

// NewServeCmd creates the serve command
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the document chat HTTP server",
		Long: `Start the HTTP API for uploading PDFs and chatting with them.

Endpoints:
  POST /upload           Upload and ingest a PDF
  GET  /uploads          List ingested documents
  GET  /upload/{id}      Document detail with chunks
  GET  /chat/stream      SSE answer stream for a question`,
		RunE: runServe,
		Example: `  docchat serve
  docchat serve --addr :8080`,
	}

	cmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides ADDR env)")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}

	if err := os.MkdirAll(cfg.UploadDir, 0o755); err != nil {
		return fmt.Errorf("creating upload directory: %w", err)
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
	streamer := buildStreamer(cfg, client, store)

	server := httpapi.NewServer(pipeline, store, streamer, extract.NewPDF(), cfg.UploadDir)

	httpServer := &http.Server{
		Addr:              cfg.Addr,
		Handler:           server.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- httpServer.ListenAndServe()
	}()

	if !quiet {
		log.Printf("docchat listening on %s (db: %s)", cfg.Addr, db.Path())
	}

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received, draining connections...")
		}
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down server: %w", err)
		}
		if !quiet {
			log.Println("Shutdown complete")
		}
	case err := <-serverErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
