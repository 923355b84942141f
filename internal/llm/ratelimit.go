package llm

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/time/rate"
)

// rpsLimiter throttles model calls to rps per second with a burst bucket.
// A nil limiter never blocks.
type rpsLimiter struct {
	lim    *rate.Limiter
	closed atomic.Bool
}

func newRPSLimiter(rps float64, burst int) *rpsLimiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}
	return &rpsLimiter{lim: rate.NewLimiter(rate.Limit(rps), burst)}
}

// Acquire waits for a token. A wait that cannot finish before the ctx
// deadline fails immediately with context.DeadlineExceeded.
func (l *rpsLimiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	if l.closed.Load() {
		return context.Canceled
	}
	if err := l.lim.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return fmt.Errorf("llm rate limit: %w", context.DeadlineExceeded)
	}
	return nil
}

func (l *rpsLimiter) Stop() {
	if l == nil {
		return
	}
	l.closed.Store(true)
}
