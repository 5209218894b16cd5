// ABOUTME: Tests for the streaming answer state machine
// ABOUTME: Uses fake collaborators and a recording sink
package answer

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/marcus/docchat/internal/models"
)

type fakeEmbedder struct {
	vector []float64
	err    error
}

func (f *fakeEmbedder) Embed(context.Context, string) ([]float64, error) {
	return f.vector, f.err
}

type fakeRetriever struct {
	results []models.ScoredChunk
	err     error
}

func (f *fakeRetriever) SearchChunks(context.Context, string, []float64, int) ([]models.ScoredChunk, error) {
	return f.results, f.err
}

type fakeGenerator struct {
	tokens []string
	err    error
	calls  int
	user   string
}

func (f *fakeGenerator) StreamAnswer(ctx context.Context, _, userPrompt string, emit func(string) error) error {
	f.calls++
	f.user = userPrompt
	for _, tok := range f.tokens {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := emit(tok); err != nil {
			return err
		}
	}
	return f.err
}

// recordingSink captures every event in arrival order
type recordingSink struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingSink) record(e string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recordingSink) Token(text string) error { return r.record("token:" + text) }

func (r *recordingSink) Done() error { return r.record("done") }

func (r *recordingSink) NoContext(message string) error { return r.record("nocontext:" + message) }

func (r *recordingSink) Error(message string) error { return r.record("error:" + message) }

func (r *recordingSink) KeepAlive() error { return r.record("keepalive") }

func (r *recordingSink) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.events...)
}

// terminals counts terminal events in a recorded stream
func terminals(events []string) int {
	n := 0
	for _, e := range events {
		if e == "done" || strings.HasPrefix(e, "error:") || strings.HasPrefix(e, "nocontext:") {
			n++
		}
	}
	return n
}

func twoChunks() []models.ScoredChunk {
	return []models.ScoredChunk{
		{ChunkID: "chunk_a", Content: "first ranked content", Score: 0.9},
		{ChunkID: "chunk_b", Content: "second ranked content", Score: 0.4},
	}
}

func TestStream_BadRequest(t *testing.T) {
	streamer := NewStreamer(&fakeEmbedder{}, &fakeRetriever{}, &fakeGenerator{}, Options{})
	sink := &recordingSink{}

	for _, tc := range []struct{ doc, q string }{
		{"", "question"},
		{"doc_1", ""},
		{"  ", "question"},
		{"doc_1", "   "},
	} {
		err := streamer.Stream(context.Background(), tc.doc, tc.q, sink)
		if !errors.Is(err, ErrBadRequest) {
			t.Errorf("Stream(%q, %q) error = %v, want ErrBadRequest", tc.doc, tc.q, err)
		}
	}
	if len(sink.snapshot()) != 0 {
		t.Error("invalid input must not produce any event")
	}
}

func TestStream_TokenOrderAndDone(t *testing.T) {
	gen := &fakeGenerator{tokens: []string{"The", " answer", " is", " 42."}}
	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1, 0}},
		&fakeRetriever{results: twoChunks()},
		gen,
		Options{TopK: 5},
	)
	sink := &recordingSink{}

	if err := streamer.Stream(context.Background(), "doc_1", "what is the answer?", sink); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	want := []string{"token:The", "token: answer", "token: is", "token: 42.", "done"}
	got := sink.snapshot()
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
	if terminals(got) != 1 {
		t.Errorf("terminal events = %d, want exactly 1", terminals(got))
	}
}

func TestStream_PromptContainsRankedContext(t *testing.T) {
	gen := &fakeGenerator{tokens: []string{"ok"}}
	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{results: twoChunks()},
		gen,
		Options{},
	)

	if err := streamer.Stream(context.Background(), "doc_1", "q?", &recordingSink{}); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	wantBlock := "first ranked content\n\nsecond ranked content"
	if !strings.Contains(gen.user, wantBlock) {
		t.Errorf("user prompt missing ranked context block:\n%s", gen.user)
	}
	if !strings.Contains(gen.user, "Question:\nq?") {
		t.Errorf("user prompt missing question:\n%s", gen.user)
	}
}

func TestStream_NoContextSkipsGeneration(t *testing.T) {
	gen := &fakeGenerator{tokens: []string{"never"}}
	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{results: nil},
		gen,
		Options{},
	)
	sink := &recordingSink{}

	if err := streamer.Stream(context.Background(), "doc_1", "anything?", sink); err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	got := sink.snapshot()
	if len(got) != 1 || got[0] != "nocontext:"+NoContextMessage {
		t.Errorf("events = %v, want single no-context terminal", got)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestStream_EmbedFailure(t *testing.T) {
	streamer := NewStreamer(
		&fakeEmbedder{err: errors.New("provider down")},
		&fakeRetriever{},
		&fakeGenerator{},
		Options{},
	)
	sink := &recordingSink{}

	err := streamer.Stream(context.Background(), "doc_1", "q?", sink)
	if err == nil {
		t.Fatal("Stream() error = nil, want embed failure")
	}

	got := sink.snapshot()
	if len(got) != 1 || !strings.HasPrefix(got[0], "error:") {
		t.Errorf("events = %v, want single error terminal", got)
	}
}

func TestStream_RetrievalFailure(t *testing.T) {
	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{err: errors.New("storage broken")},
		&fakeGenerator{},
		Options{},
	)
	sink := &recordingSink{}

	if err := streamer.Stream(context.Background(), "doc_1", "q?", sink); err == nil {
		t.Fatal("Stream() error = nil, want retrieval failure")
	}
	if terminals(sink.snapshot()) != 1 {
		t.Errorf("terminal events = %d, want exactly 1", terminals(sink.snapshot()))
	}
}

func TestStream_GenerationFailureAfterTokens(t *testing.T) {
	gen := &fakeGenerator{tokens: []string{"partial"}, err: errors.New("stream cut")}
	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{results: twoChunks()},
		gen,
		Options{},
	)
	sink := &recordingSink{}

	if err := streamer.Stream(context.Background(), "doc_1", "q?", sink); err == nil {
		t.Fatal("Stream() error = nil, want generation failure")
	}

	got := sink.snapshot()
	if got[0] != "token:partial" {
		t.Errorf("first event = %q, want the partial token", got[0])
	}
	last := got[len(got)-1]
	if !strings.HasPrefix(last, "error:") {
		t.Errorf("last event = %q, want error terminal", last)
	}
	if terminals(got) != 1 {
		t.Errorf("terminal events = %d, want exactly 1", terminals(got))
	}
}

func TestStream_CallerDisconnect(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	sink := &recordingSink{}

	gen := generatorFunc(func(genCtx context.Context, _, _ string, emit func(string) error) error {
		_ = emit("one")
		cancel()
		<-genCtx.Done()
		return genCtx.Err()
	})

	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{results: twoChunks()},
		gen,
		Options{},
	)

	err := streamer.Stream(ctx, "doc_1", "q?", sink)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Stream() error = %v, want context.Canceled", err)
	}

	// After a disconnect nothing more is written: no terminal event
	if terminals(sink.snapshot()) != 0 {
		t.Errorf("events after disconnect = %v, want no terminal", sink.snapshot())
	}
}

type generatorFunc func(context.Context, string, string, func(string) error) error

func (f generatorFunc) StreamAnswer(ctx context.Context, system, user string, emit func(string) error) error {
	return f(ctx, system, user, emit)
}

func TestStream_KeepAliveTicksAndStops(t *testing.T) {
	release := make(chan struct{})
	gen := generatorFunc(func(ctx context.Context, _, _ string, emit func(string) error) error {
		<-release
		return emit("late")
	})

	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{results: twoChunks()},
		gen,
		Options{KeepAliveInterval: 10 * time.Millisecond},
	)
	sink := &recordingSink{}

	done := make(chan error, 1)
	go func() { done <- streamer.Stream(context.Background(), "doc_1", "q?", sink) }()

	time.Sleep(50 * time.Millisecond)
	close(release)
	if err := <-done; err != nil {
		t.Fatalf("Stream() error = %v", err)
	}

	got := sink.snapshot()
	keepalives := 0
	for _, e := range got {
		if e == "keepalive" {
			keepalives++
		}
	}
	if keepalives == 0 {
		t.Error("expected keep-alive signals during slow generation")
	}
	if got[len(got)-1] != "done" {
		t.Errorf("last event = %q, want done", got[len(got)-1])
	}
}

func TestStream_MaxDurationProducesErrorEvent(t *testing.T) {
	gen := generatorFunc(func(ctx context.Context, _, _ string, _ func(string) error) error {
		<-ctx.Done()
		return ctx.Err()
	})

	streamer := NewStreamer(
		&fakeEmbedder{vector: []float64{1}},
		&fakeRetriever{results: twoChunks()},
		gen,
		Options{MaxStreamDuration: 20 * time.Millisecond},
	)
	sink := &recordingSink{}

	if err := streamer.Stream(context.Background(), "doc_1", "q?", sink); err == nil {
		t.Fatal("Stream() error = nil, want deadline failure")
	}

	got := sink.snapshot()
	if len(got) == 0 || !strings.HasPrefix(got[len(got)-1], "error:") {
		t.Errorf("events = %v, want trailing error terminal for a stalled provider", got)
	}
}
