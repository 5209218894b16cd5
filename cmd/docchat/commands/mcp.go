// ABOUTME: MCP command starts a Model Context Protocol server over stdio
// ABOUTME: Exposes document listing and querying to LLM agents
package commands

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/marcus/docchat/internal/llm"
	"github.com/marcus/docchat/internal/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// NewMCPCmd creates the MCP command
func NewMCPCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for LLM agents",
		Long: `Run docchat as an MCP (Model Context Protocol) server over stdio.

Exposes two tools to LLM agents: list_documents and query_document.`,
		RunE: runMCP,
		Example: `  # Start MCP server (typically called by an agent host)
  docchat mcp

  # Configure in claude_desktop_config.json:
  # {
  #   "mcpServers": {
  #     "docchat": {
  #       "command": "docchat",
  #       "args": ["mcp"]
  #     }
  #   }
  # }`,
	}

	return cmd
}

func runMCP(cmd *cobra.Command, args []string) error {
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

	streamer := buildStreamer(cfg, client, store)

	server := mcpserver.NewMCPServer(
		"docchat",
		versionInfo.Version,
	)

	mcp.RegisterTools(server, store, streamer)

	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM)
	defer stop()

	if !quiet {
		log.Println("docchat MCP server starting on stdio...")
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- mcpserver.ServeStdio(server)
	}()

	select {
	case <-ctx.Done():
		if !quiet {
			log.Println("Shutdown signal received")
		}
	case err := <-serverErr:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
	}

	return nil
}
