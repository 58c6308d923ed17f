// Package retry runs an operation with exponential backoff, a per-attempt
// deadline and cooperative cancellation. Every external call site in the
// repo goes through Do instead of hand-rolling timer bookkeeping.
package retry

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrPermanent wraps failures that must not be retried, e.g. an HTTP 404.
// Do returns it immediately.
var ErrPermanent = errors.New("permanent failure")

// Permanent marks err as non-retryable.
func Permanent(err error) error {
	return fmt.Errorf("%w: %s", ErrPermanent, err)
}

// Config bounds the retry loop.
type Config struct {
	MaxAttempts    int
	BaseDelay      time.Duration // doubled after each failed attempt
	AttemptTimeout time.Duration // deadline applied to each attempt's context
}

// DefaultConfig matches the external API call sites: three attempts, one
// second base delay, ten second per-attempt timeout.
var DefaultConfig = Config{
	MaxAttempts:    3,
	BaseDelay:      time.Second,
	AttemptTimeout: 10 * time.Second,
}

// Do runs op until it succeeds, fails permanently, exhausts MaxAttempts, or
// ctx is cancelled. ctx cancellation is checked before every attempt and
// during every backoff wait.
func Do(ctx context.Context, cfg Config, op func(ctx context.Context) error) error {
	delay := cfg.BaseDelay

	var lastErr error
	for attempt := 1; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		attemptCtx := ctx
		cancel := context.CancelFunc(func() {})
		if cfg.AttemptTimeout > 0 {
			attemptCtx, cancel = context.WithTimeout(ctx, cfg.AttemptTimeout)
		}
		err := op(attemptCtx)
		cancel()

		if err == nil {
			return nil
		}
		if errors.Is(err, ErrPermanent) {
			return err
		}
		lastErr = err

		if attempt == cfg.MaxAttempts {
			break
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		delay *= 2
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", cfg.MaxAttempts, lastErr)
}
