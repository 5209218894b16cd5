// ABOUTME: Long-lived chat stream endpoint
// ABOUTME: Validates input, opens the SSE channel, hands off to the streamer
package httpapi

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/marcus/docchat/internal/answer"
)

func (s *Server) handleChatStream(w http.ResponseWriter, r *http.Request) {
	documentID := r.URL.Query().Get("documentId")
	query := r.URL.Query().Get("query")

	// Input errors are reported before any stream is opened
	if documentID == "" || query == "" {
		writeError(w, http.StatusBadRequest, "documentId and query parameters are required", "")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported", "")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache, no-transform")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	flusher.Flush()

	sink := newSSESink(w, flusher)
	if err := s.streamer.Stream(r.Context(), documentID, query, sink); err != nil {
		switch {
		case errors.Is(err, answer.ErrBadRequest):
			// Already validated above; only reachable with whitespace params
			_ = sink.Error(err.Error())
		case errors.Is(err, context.Canceled):
			log.Printf("chat stream: client disconnected for %s", documentID)
		default:
			log.Printf("chat stream: %v", err)
		}
	}
}
