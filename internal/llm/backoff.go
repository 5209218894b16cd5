// ABOUTME: Backoff schedule for retried OpenAI calls
// ABOUTME: Doubles the configured retry delay per attempt with jitter, capped at 30s
package llm

import (
	"math/rand/v2"
	"time"
)

// maxBackoff keeps a long retry budget from stalling an ingest for
// minutes; a provider that is still failing at 30s per wait is down.
const maxBackoff = 30 * time.Second

// retryBackoff returns the wait before retry attempt (1-based). The
// configured base delay doubles each attempt up to maxBackoff, and up
// to ±25% jitter spreads the concurrent chunk embedding workers apart
// so they do not hammer the provider in lockstep.
func retryBackoff(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt <= 0 {
		return 0
	}
	wait := base
	for i := 0; i < attempt && wait < maxBackoff; i++ {
		wait *= 2
	}
	if wait > maxBackoff {
		wait = maxBackoff
	}
	return wait - wait/4 + rand.N(wait/2)
}
