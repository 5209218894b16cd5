// ABOUTME: HTTP surface for uploads, document listing, and the chat stream
// ABOUTME: Stdlib net/http with pattern routing and permissive CORS
package httpapi

import (
	"context"
	"encoding/json"
	"log"
	"net/http"

	"github.com/marcus/docchat/internal/answer"
	"github.com/marcus/docchat/internal/extract"
	"github.com/marcus/docchat/internal/ingest"
	"github.com/marcus/docchat/internal/storage"
)

// Ingester runs the upload pipeline for extracted text
type Ingester interface {
	IngestText(ctx context.Context, filename, text string) (*ingest.Result, error)
}

// Server holds the handlers' collaborators
type Server struct {
	ingester  Ingester
	docs      storage.DocumentStore
	streamer  *answer.Streamer
	extractor extract.Extractor
	uploadDir string
}

// NewServer wires the HTTP surface
func NewServer(ingester Ingester, docs storage.DocumentStore, streamer *answer.Streamer, extractor extract.Extractor, uploadDir string) *Server {
	return &Server{
		ingester:  ingester,
		docs:      docs,
		streamer:  streamer,
		extractor: extractor,
		uploadDir: uploadDir,
	}
}

// Handler builds the route table
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleRoot)
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /uploads", s.handleListDocuments)
	mux.HandleFunc("GET /upload/{id}", s.handleDocumentDetail)
	mux.HandleFunc("GET /chat/stream", s.handleChatStream)
	return cors(mux)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"message": "docchat API running"})
}

// cors mirrors the permissive policy of the original deployment
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		if r.Method == http.MethodOptions {
			w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("writing response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string, details string) {
	body := map[string]string{"error": message}
	if details != "" {
		body["details"] = details
	}
	writeJSON(w, status, body)
}
