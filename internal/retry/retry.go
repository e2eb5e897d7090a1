// Package retry runs an operation a bounded number of times with a
// per-attempt backoff schedule.
package retry

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// Policy controls how many attempts are made and how long to wait between them.
type Policy struct {
	MaxAttempts int
	// Backoff returns the wait after the given failed attempt (1-based).
	Backoff func(attempt int) time.Duration
	// Retryable reports whether err is worth another attempt. Nil retries everything.
	Retryable func(err error) bool
	OnRetry   func(attempt int, err error, backoff time.Duration)
}

// Linear returns a backoff schedule of step × attempt.
func Linear(step time.Duration) func(int) time.Duration {
	return func(attempt int) time.Duration {
		return step * time.Duration(attempt)
	}
}

// PermanentError marks an error the policy refused to retry.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

// Do calls op until it succeeds, the policy gives up, or ctx is cancelled.
// The returned error wraps the last failure so errors.Is/As still match it.
func Do(ctx context.Context, clock clockwork.Clock, p Policy, op func() error) error {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = 1
	}

	for attempt := 1; ; attempt++ {
		err := op()
		if err == nil {
			return nil
		}

		if p.Retryable != nil && !p.Retryable(err) {
			return &PermanentError{Err: err}
		}

		if attempt >= p.MaxAttempts {
			return fmt.Errorf("failed after %d attempts: %w", p.MaxAttempts, err)
		}

		var backoff time.Duration
		if p.Backoff != nil {
			backoff = p.Backoff(attempt)
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err, backoff)
		}

		select {
		case <-clock.After(backoff):
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during retry: %w", ctx.Err())
		}
	}
}
