// ABOUTME: Read-only document listing and detail handlers
// ABOUTME: Listing excludes text; detail exposes chunk contents, never vectors
package httpapi

import (
	"errors"
	"log"
	"net/http"

	"github.com/marcus/docchat/internal/models"
	"github.com/marcus/docchat/internal/storage"
)

type documentSummary struct {
	ID        string `json:"id"`
	Filename  string `json:"filename"`
	CreatedAt string `json:"createdAt"`
}

type chunkView struct {
	ID      string `json:"id"`
	Content string `json:"content"`
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	docs, err := s.docs.ListDocuments(r.Context())
	if err != nil {
		log.Printf("listing documents: %v", err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch documents", err.Error())
		return
	}

	summaries := make([]documentSummary, len(docs))
	for i, d := range docs {
		summaries[i] = summarize(d)
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"count":     len(summaries),
		"documents": summaries,
	})
}

func (s *Server) handleDocumentDetail(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	doc, err := s.docs.GetDocument(r.Context(), id)
	if errors.Is(err, storage.ErrNotFound) {
		writeError(w, http.StatusNotFound, "Document not found", "")
		return
	}
	if err != nil {
		log.Printf("fetching document %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch document details", err.Error())
		return
	}

	chunks, err := s.docs.GetChunkContents(r.Context(), id)
	if err != nil {
		log.Printf("fetching chunks for %s: %v", id, err)
		writeError(w, http.StatusInternalServerError, "Failed to fetch document details", err.Error())
		return
	}

	views := make([]chunkView, len(chunks))
	for i, c := range chunks {
		views[i] = chunkView{ID: c.ID, Content: c.Content}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":         doc.ID,
		"filename":   doc.Filename,
		"createdAt":  doc.CreatedAt,
		"chunks":     views,
		"chunkCount": len(views),
	})
}

func summarize(d models.Document) documentSummary {
	return documentSummary{
		ID:        d.ID,
		Filename:  d.Filename,
		CreatedAt: d.CreatedAt.Format("2006-01-02T15:04:05.000Z07:00"),
	}
}
