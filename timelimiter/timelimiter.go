package timelimiter

import (
	"context"
	"errors"
	"time"
)

// ErrTimeout is returned when the operation did not complete within the
// configured timeout.
var ErrTimeout = errors.New("timelimiter: operation timed out")

// Operation is the signature for time-limited operations.
type Operation func(ctx context.Context) error

// Config configures the time limiter.
type Config struct {
	// Timeout is the maximum duration for the operation.
	// Default: 30 seconds
	Timeout time.Duration
}

// TimeLimiter enforces a maximum duration on operations. The limiter
// itself is stateless configuration; every Execute call gets its own timer
// and cancellation scope, so one instance safely guards concurrent
// invocations.
type TimeLimiter struct {
	config Config
}

// New creates a new time limiter.
func New(config Config) *TimeLimiter {
	// Apply defaults
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}

	return &TimeLimiter{config: config}
}

// Execute runs the operation, racing it against the timeout. If the
// operation finishes first its result is returned unchanged. If the timer
// fires first, Execute returns ErrTimeout and cancels the context passed
// to the operation; the operation keeps running in its goroutine until it
// observes the cancellation, but the caller is never blocked past the
// deadline. A pre-deadline cancellation of the caller's own context
// surfaces as ctx.Err().
func (t *TimeLimiter) Execute(ctx context.Context, op Operation) error {
	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	// Buffered so the operation goroutine can always deliver its result
	// and exit, even when the caller has already given up.
	done := make(chan error, 1)

	go func() {
		done <- op(ctx)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return ErrTimeout
		}
		return ctx.Err()
	}
}

// Decorate wraps the operation with the time limit. The returned
// operation has the same shape as the one passed in.
func (t *TimeLimiter) Decorate(op Operation) Operation {
	return func(ctx context.Context) error {
		return t.Execute(ctx, op)
	}
}

// Do runs an operation that returns a value under the time limit. On
// timeout the zero value and ErrTimeout are returned.
func Do[T any](ctx context.Context, t *TimeLimiter, op func(context.Context) (T, error)) (T, error) {
	type result struct {
		value T
		err   error
	}

	ctx, cancel := context.WithTimeout(ctx, t.config.Timeout)
	defer cancel()

	done := make(chan result, 1)

	go func() {
		v, err := op(ctx)
		done <- result{v, err}
	}()

	select {
	case r := <-done:
		return r.value, r.err
	case <-ctx.Done():
		var zero T
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return zero, ErrTimeout
		}
		return zero, ctx.Err()
	}
}

// Config returns the time limiter configuration.
func (t *TimeLimiter) Config() Config {
	return t.config
}

// Within is a convenience function to run an operation with a one-off
// timeout.
func Within(ctx context.Context, timeout time.Duration, op Operation) error {
	return New(Config{Timeout: timeout}).Execute(ctx, op)
}
