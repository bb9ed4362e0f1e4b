package services

import (
	"context"
	"fmt"
	"time"

	"github.com/memolab/vaultscribe/internal/logger"
)

// Retrier executes an operation with bounded retry and a fixed delay
// between attempts. The delay is deliberately not exponential: transient
// vault errors (a note mid-write, a short-lived lock) clear quickly or not
// at all.
type Retrier struct {
	maxRetries int
	delay      time.Duration
}

// NewRetrier creates a retrier. maxRetries is the number of retries after
// the first attempt, so an operation runs at most maxRetries+1 times.
func NewRetrier(maxRetries int, delay time.Duration) *Retrier {
	return &Retrier{
		maxRetries: maxRetries,
		delay:      delay,
	}
}

// Run invokes fn until it succeeds or attempts are exhausted. It returns
// the number of attempts made and, on exhaustion, the last error. There is
// no rollback: the operation is left in whatever state the last failed
// attempt produced.
func (r *Retrier) Run(ctx context.Context, label string, fn func(ctx context.Context) error) (int, error) {
	attempts := r.maxRetries + 1

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		lastErr = fn(ctx)
		if lastErr == nil {
			return attempt, nil
		}

		if attempt < attempts {
			logger.Warn("retry %s: attempt %d/%d failed: %v", label, attempt, attempts, lastErr)
			if err := sleepContext(ctx, r.delay); err != nil {
				return attempt, err
			}
		}
	}

	return attempts, fmt.Errorf("%s: %d attempts exhausted: %w", label, attempts, lastErr)
}

// sleepContext pauses for d or until ctx is cancelled.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
