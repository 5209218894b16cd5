// ABOUTME: Multipart PDF upload handler
// ABOUTME: Saves a temp file, extracts text, runs ingest, always cleans up
package httpapi

import (
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"

	"github.com/marcus/docchat/internal/ingest"
)

// maxUploadBytes bounds the multipart form held in memory
const maxUploadBytes = 64 << 20

func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "No file uploaded", "")
		return
	}
	defer func() { _ = file.Close() }()

	if err := os.MkdirAll(s.uploadDir, 0755); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process uploaded document", err.Error())
		return
	}

	// The extractor reads from disk, so the upload lands in a temp file
	// that is removed on every path out of this handler
	tmp, err := os.CreateTemp(s.uploadDir, "upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process uploaded document", err.Error())
		return
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := io.Copy(tmp, file); err != nil {
		_ = tmp.Close()
		writeError(w, http.StatusInternalServerError, "Failed to process uploaded document", err.Error())
		return
	}
	if err := tmp.Close(); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to process uploaded document", err.Error())
		return
	}

	text, err := s.extractor.Extract(tmpPath)
	if err != nil {
		log.Printf("upload: extraction failed for %s: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "Failed to process uploaded document", err.Error())
		return
	}

	result, err := s.ingester.IngestText(r.Context(), header.Filename, text)
	if err != nil {
		if errors.Is(err, ingest.ErrTextTooShort) {
			writeError(w, http.StatusUnprocessableEntity, "Failed to extract sufficient text from PDF.", "")
			return
		}
		log.Printf("upload: ingest failed for %s: %v", header.Filename, err)
		writeError(w, http.StatusInternalServerError, "Failed to process uploaded document", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"message":    "Document uploaded and embedded successfully",
		"documentId": result.DocumentID,
		"filename":   result.Filename,
		"chunkCount": result.ChunkCount,
	})
}
