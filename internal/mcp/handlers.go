// ABOUTME: MCP tool handler implementations for the docchat server
// ABOUTME: Reuses the answer streamer with a buffering sink for one-shot answers
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/marcus/docchat/internal/answer"
	"github.com/marcus/docchat/internal/storage"
)

// Handlers contains the handler functions for all MCP tools
type Handlers struct {
	docs     storage.DocumentStore
	streamer *answer.Streamer
}

// ListDocuments handles the list_documents tool
func (h *Handlers) ListDocuments(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	docs, err := h.docs.ListDocuments(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("listing documents failed: %v", err)), nil
	}

	type entry struct {
		ID        string `json:"id"`
		Filename  string `json:"filename"`
		CreatedAt string `json:"created_at"`
	}
	entries := make([]entry, len(docs))
	for i, d := range docs {
		entries[i] = entry{ID: d.ID, Filename: d.Filename, CreatedAt: d.CreatedAt.Format("2006-01-02 15:04:05")}
	}

	payload, err := json.MarshalIndent(map[string]interface{}{
		"count":     len(entries),
		"documents": entries,
	}, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encoding result failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(payload)), nil
}

// QueryDocument handles the query_document tool
func (h *Handlers) QueryDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	documentID, err := request.RequireString("document_id")
	if err != nil {
		return mcp.NewToolResultError("document_id argument is required and must be a string"), nil
	}
	query, err := request.RequireString("query")
	if err != nil {
		return mcp.NewToolResultError("query argument is required and must be a string"), nil
	}

	sink := &bufferSink{}
	if err := h.streamer.Stream(ctx, documentID, query, sink); err != nil {
		// Prefer the message the sink was handed over the wrapped
		// internal error; it is the client-facing form
		if sink.errMessage != "" {
			return mcp.NewToolResultError(sink.errMessage), nil
		}
		return mcp.NewToolResultError(fmt.Sprintf("query failed: %v", err)), nil
	}
	if sink.noContext {
		return mcp.NewToolResultText("No relevant content was found in this document."), nil
	}
	return mcp.NewToolResultText(sink.answer.String()), nil
}

// bufferSink collects a streamed answer into one string.
// MCP tool calls are one-shot, so keep-alives are dropped.
type bufferSink struct {
	answer     strings.Builder
	noContext  bool
	errMessage string
}

func (b *bufferSink) Token(text string) error { b.answer.WriteString(text); return nil }

func (b *bufferSink) Done() error { return nil }

func (b *bufferSink) NoContext(string) error { b.noContext = true; return nil }

func (b *bufferSink) Error(message string) error { b.errMessage = message; return nil }

func (b *bufferSink) KeepAlive() error { return nil }
