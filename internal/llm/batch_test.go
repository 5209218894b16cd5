// ABOUTME: Tests for concurrent batch embedding
// ABOUTME: Verifies index alignment under concurrency and all-or-nothing failure
package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"testing"
	"time"
)

// indexVector encodes the input back into the vector so alignment is checkable
func indexVector(_ context.Context, text string) ([]float64, error) {
	n, err := strconv.Atoi(text)
	if err != nil {
		return nil, err
	}
	// Random sleep shuffles completion order relative to dispatch order
	time.Sleep(time.Duration(rand.IntN(3)) * time.Millisecond)
	return []float64{float64(n), float64(n * 2)}, nil
}

func TestEmbedAll_IndexAlignment(t *testing.T) {
	texts := make([]string, 50)
	for i := range texts {
		texts[i] = strconv.Itoa(i)
	}

	vectors, err := embedAll(context.Background(), texts, 8, indexVector)
	if err != nil {
		t.Fatalf("embedAll() error = %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("got %d vectors, want %d", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if v == nil {
			t.Fatalf("vector %d is nil", i)
		}
		if v[0] != float64(i) {
			t.Errorf("vector %d = %v, not aligned with input %d", i, v, i)
		}
	}
}

func TestEmbedAll_Empty(t *testing.T) {
	vectors, err := embedAll(context.Background(), nil, 4, indexVector)
	if err != nil {
		t.Fatalf("embedAll() error = %v", err)
	}
	if vectors != nil {
		t.Errorf("got %v, want nil for empty input", vectors)
	}
}

func TestEmbedAll_SingleFailureAbortsBatch(t *testing.T) {
	boom := errors.New("provider unavailable")
	calls := 0
	embedOne := func(_ context.Context, text string) ([]float64, error) {
		calls++
		if text == "7" {
			return nil, boom
		}
		return []float64{1}, nil
	}

	texts := make([]string, 20)
	for i := range texts {
		texts[i] = strconv.Itoa(i)
	}

	vectors, err := embedAll(context.Background(), texts, 1, embedOne)
	if err == nil {
		t.Fatal("embedAll() error = nil, want failure")
	}
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped %v", err, boom)
	}
	if vectors != nil {
		t.Errorf("got partial vectors %v, want nil", vectors)
	}
	// One worker stops at the failing input; later inputs are never embedded
	if calls > 9 {
		t.Errorf("embedOne called %d times after failure, want at most 9", calls)
	}
}

func TestEmbedAll_ParentCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	embedOne := func(ctx context.Context, _ string) ([]float64, error) {
		return nil, ctx.Err()
	}

	_, err := embedAll(ctx, []string{"a", "b"}, 2, embedOne)
	if err == nil {
		t.Fatal("embedAll() error = nil, want context error")
	}
}

func TestEmbedAll_MoreWorkersThanInputs(t *testing.T) {
	vectors, err := embedAll(context.Background(), []string{"0", "1"}, 16, indexVector)
	if err != nil {
		t.Fatalf("embedAll() error = %v", err)
	}
	if len(vectors) != 2 {
		t.Fatalf("got %d vectors, want 2", len(vectors))
	}
	if fmt.Sprint(vectors[1]) != "[1 2]" {
		t.Errorf("vector 1 = %v, want [1 2]", vectors[1])
	}
}
