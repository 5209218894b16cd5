// ABOUTME: Streaming answer orchestration: embed query, retrieve, generate
// ABOUTME: Guarantees keep-alive release and exactly one terminal event per stream
package answer

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/marcus/docchat/internal/models"
)

// ErrBadRequest rejects a stream before any event is written
var ErrBadRequest = errors.New("documentId and query are required")

// NoContextMessage is the informational payload when retrieval finds nothing
const NoContextMessage = "No relevant chunks found"

const systemPrompt = `You are a helpful assistant that answers based on provided context.
If context is irrelevant, respond: "I'm sorry, I couldn't find relevant information in the document."
Be concise and precise.`

// Embedder turns the question into a query vector
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float64, error)
}

// Retriever returns the top-k chunks of one document for a query vector
type Retriever interface {
	SearchChunks(ctx context.Context, documentID string, queryVector []float64, k int) ([]models.ScoredChunk, error)
}

// Generator streams completion fragments for a prompt pair
type Generator interface {
	StreamAnswer(ctx context.Context, systemPrompt, userPrompt string, emit func(token string) error) error
}

// Options tunes one Streamer instance
type Options struct {
	TopK              int
	KeepAliveInterval time.Duration
	MaxStreamDuration time.Duration
}

// Streamer drives one retrieval-augmented answer exchange
type Streamer struct {
	embedder  Embedder
	retriever Retriever
	generator Generator
	opts      Options
}

// NewStreamer creates a Streamer with injected collaborators
func NewStreamer(embedder Embedder, retriever Retriever, generator Generator, opts Options) *Streamer {
	if opts.TopK <= 0 {
		opts.TopK = 5
	}
	return &Streamer{
		embedder:  embedder,
		retriever: retriever,
		generator: generator,
		opts:      opts,
	}
}

// Stream answers one question over the sink. Invalid input returns
// ErrBadRequest before any event; afterwards every outcome reaches the
// sink as exactly one terminal event. A caller disconnect (parent ctx
// done) abandons generation with no further writes.
func (s *Streamer) Stream(parent context.Context, documentID, question string, sink Sink) error {
	if strings.TrimSpace(documentID) == "" || strings.TrimSpace(question) == "" {
		return ErrBadRequest
	}

	ctx := parent
	if s.opts.MaxStreamDuration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(parent, s.opts.MaxStreamDuration)
		defer cancel()
	}

	// Keep-alive is a scoped resource: released on every exit path
	stopKeepAlive := s.startKeepAlive(ctx, sink)
	defer stopKeepAlive()

	queryVector, err := s.embedder.Embed(ctx, question)
	if err != nil {
		return s.fail(parent, sink, fmt.Errorf("embedding query: %w", err))
	}

	results, err := s.retriever.SearchChunks(ctx, documentID, queryVector, s.opts.TopK)
	if err != nil {
		return s.fail(parent, sink, fmt.Errorf("retrieving chunks: %w", err))
	}

	if len(results) == 0 {
		stopKeepAlive()
		return sink.NoContext(NoContextMessage)
	}

	contents := make([]string, len(results))
	for i, r := range results {
		contents[i] = r.Content
	}
	userPrompt := fmt.Sprintf("Context:\n%s\n\nQuestion:\n%s", strings.Join(contents, "\n\n"), question)

	err = s.generator.StreamAnswer(ctx, systemPrompt, userPrompt, sink.Token)
	if err != nil {
		return s.fail(parent, sink, fmt.Errorf("generating answer: %w", err))
	}

	stopKeepAlive()
	return sink.Done()
}

// fail reports one terminal error event, unless the caller already
// disconnected, in which case nothing more is written.
func (s *Streamer) fail(parent context.Context, sink Sink, err error) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	if werr := sink.Error(err.Error()); werr != nil {
		return errors.Join(err, werr)
	}
	return err
}

// startKeepAlive emits periodic no-op signals until stopped. The
// returned stop function is idempotent.
func (s *Streamer) startKeepAlive(ctx context.Context, sink Sink) func() {
	if s.opts.KeepAliveInterval <= 0 {
		return func() {}
	}

	done := make(chan struct{})
	var once sync.Once
	stop := func() { once.Do(func() { close(done) }) }

	go func() {
		ticker := time.NewTicker(s.opts.KeepAliveInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_ = sink.KeepAlive()
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return stop
}
