// Package retry runs flaky calls (SMTP delivery) with exponential backoff,
// optionally behind a circuit breaker.
package retry

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net"
	"time"
)

// maxDelay caps a single backoff step.
const maxDelay = time.Minute

type temporary interface {
	Temporary() bool
}

type transientError struct {
	err error
}

func (e *transientError) Error() string   { return e.err.Error() }
func (e *transientError) Unwrap() error   { return e.err }
func (e *transientError) Temporary() bool { return true }

// Transient marks err as worth retrying.
func Transient(err error) error {
	if err == nil {
		return nil
	}
	return &transientError{err: err}
}

// IsRetriable is true for errors that report Temporary() and for network
// timeouts. Context errors are never retried.
func IsRetriable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	}

	var t temporary
	if errors.As(err, &t) && t.Temporary() {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// RetryWithBackoff calls fn up to maxRetries times. Non-retriable errors are
// returned at once; the last retriable one is wrapped with the attempt count.
func RetryWithBackoff[T any](
	ctx context.Context,
	maxRetries int,
	baseDelay time.Duration,
	fn func() (T, error),
) (T, error) {
	var zero T
	if maxRetries <= 0 {
		return zero, fmt.Errorf("maxRetries must be > 0, got %d", maxRetries)
	}

	var lastErr error
	for attempt := 0; attempt < maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn()
		if err == nil {
			return result, nil
		}
		if !IsRetriable(err) {
			return zero, err
		}
		lastErr = err

		if attempt == maxRetries-1 {
			break
		}
		if err := wait(ctx, backoffDelay(attempt, baseDelay)); err != nil {
			return zero, err
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", maxRetries, lastErr)
}

// backoffDelay is base*2^attempt plus up to base of jitter, capped at maxDelay.
func backoffDelay(attempt int, base time.Duration) time.Duration {
	if base <= 0 {
		return 0
	}
	delay := base << attempt
	if delay <= 0 || delay > maxDelay {
		delay = maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(base))) //nolint:gosec // jitter doesn't need crypto rand
	return min(delay+jitter, maxDelay)
}

func wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
