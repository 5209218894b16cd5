// ABOUTME: MCP tool definitions and registration for the docchat server
// ABOUTME: Exposes document listing and question answering over stdio
package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/marcus/docchat/internal/answer"
	"github.com/marcus/docchat/internal/storage"
)

// RegisterTools registers all MCP tools with the server
func RegisterTools(server *mcpserver.MCPServer, docs storage.DocumentStore, streamer *answer.Streamer) *Handlers {
	handlers := &Handlers{
		docs:     docs,
		streamer: streamer,
	}

	// list_documents - enumerate ingested documents
	server.AddTool(mcp.Tool{
		Name:        "list_documents",
		Description: "List all ingested documents with their id, filename, and creation time.",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]interface{}{},
		},
	}, handlers.ListDocuments)

	// query_document - answer a question from one document's chunks
	server.AddTool(mcp.Tool{
		Name:        "query_document",
		Description: "Answer a question using the most relevant chunks of one ingested document.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"document_id": map[string]interface{}{
					"type":        "string",
					"description": "Id of the document to query",
				},
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Natural-language question about the document",
				},
			},
			Required: []string{"document_id", "query"},
		},
	}, handlers.QueryDocument)

	return handlers
}
