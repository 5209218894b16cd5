// ABOUTME: Concurrent batch embedding with stable index alignment
// ABOUTME: Workers write results by input index, never by arrival order
package llm

import (
	"context"
	"fmt"
	"sync"
)

// embedAll runs embedOne over every text with a bounded worker pool.
// vectors[i] always corresponds to texts[i]; the first error cancels the
// remaining work and fails the batch so no partial result escapes.
func embedAll(ctx context.Context, texts []string, workers int, embedOne func(context.Context, string) ([]float64, error)) ([][]float64, error) {
	if len(texts) == 0 {
		return nil, nil
	}
	if workers < 1 {
		workers = 1
	}
	if workers > len(texts) {
		workers = len(texts)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	vectors := make([][]float64, len(texts))
	jobs := make(chan int)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		firstErr error
	)

	fail := func(err error) {
		mu.Lock()
		if firstErr == nil {
			firstErr = err
		}
		mu.Unlock()
		cancel()
	}

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				vec, err := embedOne(ctx, texts[i])
				if err != nil {
					fail(fmt.Errorf("embedding input %d: %w", i, err))
					return
				}
				vectors[i] = vec
			}
		}()
	}

dispatch:
	for i := range texts {
		select {
		case jobs <- i:
		case <-ctx.Done():
			break dispatch
		}
	}
	close(jobs)
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return vectors, nil
}
