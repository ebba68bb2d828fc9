package retry

import (
	"context"
	"errors"
	"sync"
	"time"
)

var ErrCircuitOpen = errors.New("circuit breaker is open")

type CircuitState int

const (
	StateClosed CircuitState = iota
	StateOpen
	StateHalfOpen
)

func (s CircuitState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// CircuitBreaker opens after failureThreshold consecutive retriable failures
// and lets one probe through once resetTimeout has passed. A failed probe
// opens it again.
type CircuitBreaker struct {
	mu               sync.Mutex
	state            CircuitState
	failures         int
	failureThreshold int
	resetTimeout     time.Duration
	openedAt         time.Time
	now              func() time.Time
}

func NewCircuitBreaker(failureThreshold int, resetTimeout time.Duration) *CircuitBreaker {
	return &CircuitBreaker{
		state:            StateClosed,
		failureThreshold: max(failureThreshold, 1),
		resetTimeout:     resetTimeout,
		now:              time.Now,
	}
}

func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// Execute runs fn unless the breaker is open. Permanent errors pass through
// without counting as failures.
func (cb *CircuitBreaker) Execute(fn func() error) error {
	if !cb.allow() {
		return ErrCircuitOpen
	}
	err := fn()
	cb.record(err)
	return err
}

func (cb *CircuitBreaker) allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state != StateOpen {
		return true
	}
	if cb.now().Sub(cb.openedAt) > cb.resetTimeout {
		cb.state = StateHalfOpen
		return true
	}
	return false
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil:
		cb.failures = 0
		cb.state = StateClosed
	case IsRetriable(err):
		cb.failures++
		if cb.state == StateHalfOpen || cb.failures >= cb.failureThreshold {
			cb.state = StateOpen
			cb.openedAt = cb.now()
		}
	}
}

// RetryWithCircuitBreaker retries fn with backoff, routing every attempt
// through cb. ErrCircuitOpen is not retriable, so an open breaker ends the loop.
func RetryWithCircuitBreaker[T any](
	ctx context.Context,
	cb *CircuitBreaker,
	maxRetries int,
	baseDelay time.Duration,
	fn func() (T, error),
) (T, error) {
	return RetryWithBackoff(ctx, maxRetries, baseDelay, func() (T, error) {
		var result T
		err := cb.Execute(func() error {
			var fnErr error
			result, fnErr = fn()
			return fnErr
		})
		return result, err
	})
}
