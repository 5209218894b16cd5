// ABOUTME: Server-sent events sink for the chat stream
// ABOUTME: JSON data events, comment keep-alives, one terminal event then closed
package httpapi

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
)

// sseSink writes answer events in SSE framing. Safe for concurrent use;
// after a terminal event every further write is a no-op so a racing
// keep-alive can never trail the terminal.
type sseSink struct {
	mu     sync.Mutex
	w      http.ResponseWriter
	f      http.Flusher
	closed bool
}

func newSSESink(w http.ResponseWriter, f http.Flusher) *sseSink {
	return &sseSink{w: w, f: f}
}

type tokenEvent struct {
	Token string `json:"token"`
}

type doneEvent struct {
	Done bool `json:"done"`
}

type noContextEvent struct {
	NoContext bool   `json:"noContext"`
	Message   string `json:"message"`
}

type errorEvent struct {
	Error string `json:"error"`
}

func (s *sseSink) Token(text string) error {
	return s.event(tokenEvent{Token: text}, false)
}

func (s *sseSink) Done() error {
	return s.event(doneEvent{Done: true}, true)
}

func (s *sseSink) NoContext(message string) error {
	return s.event(noContextEvent{NoContext: true, Message: message}, true)
}

func (s *sseSink) Error(message string) error {
	return s.event(errorEvent{Error: message}, true)
}

func (s *sseSink) KeepAlive() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if _, err := fmt.Fprint(s.w, ":\n\n"); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}

func (s *sseSink) event(v interface{}, terminal bool) error {
	payload, err := json.Marshal(v)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	if terminal {
		s.closed = true
	}
	if _, err := fmt.Fprintf(s.w, "data: %s\n\n", payload); err != nil {
		return err
	}
	s.f.Flush()
	return nil
}
