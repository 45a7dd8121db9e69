package ratelimiter

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrLimited is returned when a call exceeds the rate limit. The protected
// operation is not invoked.
var ErrLimited = errors.New("ratelimiter: rate limit exceeded")

// Operation is the signature for rate-limited operations.
type Operation func(ctx context.Context) error

// Config configures the rate limiter.
type Config struct {
	// Rate is the number of calls allowed per second.
	// Default: 100
	Rate float64

	// Burst is the maximum burst size.
	// Default: 10
	Burst int

	// WaitOnLimit waits for a token instead of failing immediately.
	// Default: false
	WaitOnLimit bool

	// MaxWait is the maximum time to wait for a token.
	// Default: 1 second
	MaxWait time.Duration
}

// RateLimiter implements a token bucket rate limiter. Safe for concurrent
// use.
type RateLimiter struct {
	config Config

	mu         sync.Mutex
	tokens     float64
	lastRefill time.Time
}

// New creates a new rate limiter with a full bucket.
func New(config Config) *RateLimiter {
	// Apply defaults
	if config.Rate <= 0 {
		config.Rate = 100
	}
	if config.Burst < 1 {
		config.Burst = 10
	}
	if config.MaxWait <= 0 {
		config.MaxWait = time.Second
	}

	return &RateLimiter{
		config:     config,
		tokens:     float64(config.Burst),
		lastRefill: time.Now(),
	}
}

// Allow reports whether one call is allowed under the rate limit,
// consuming a token when it is.
func (rl *RateLimiter) Allow() bool {
	return rl.AllowN(1)
}

// AllowN reports whether n calls are allowed, consuming n tokens when they
// are.
func (rl *RateLimiter) AllowN(n int) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.refillLocked()

	if rl.tokens >= float64(n) {
		rl.tokens -= float64(n)
		return true
	}
	return false
}

// Wait blocks until a token is available, MaxWait elapses, or the context
// is cancelled.
func (rl *RateLimiter) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	if rl.AllowN(1) {
		return nil
	}

	rl.mu.Lock()
	needed := 1 - rl.tokens
	waitTime := time.Duration(needed / rl.config.Rate * float64(time.Second))
	rl.mu.Unlock()

	if waitTime > rl.config.MaxWait {
		waitTime = rl.config.MaxWait
	}

	timer := time.NewTimer(waitTime)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		if rl.AllowN(1) {
			return nil
		}
		return ErrLimited
	}
}

// Execute runs the operation if the rate limit allows it. With WaitOnLimit
// set, Execute blocks for a token up to MaxWait first.
func (rl *RateLimiter) Execute(ctx context.Context, op Operation) error {
	if rl.config.WaitOnLimit {
		if err := rl.Wait(ctx); err != nil {
			return err
		}
	} else if !rl.Allow() {
		return ErrLimited
	}

	return op(ctx)
}

// Decorate wraps the operation with rate limiting. The returned operation
// has the same shape as the one passed in.
func (rl *RateLimiter) Decorate(op Operation) Operation {
	return func(ctx context.Context) error {
		return rl.Execute(ctx, op)
	}
}

// Do runs an operation that returns a value under the rate limit.
func Do[T any](ctx context.Context, rl *RateLimiter, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := rl.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

func (rl *RateLimiter) refillLocked() {
	now := time.Now()
	elapsed := now.Sub(rl.lastRefill)
	rl.lastRefill = now

	rl.tokens += elapsed.Seconds() * rl.config.Rate
	if rl.tokens > float64(rl.config.Burst) {
		rl.tokens = float64(rl.config.Burst)
	}
}

// Tokens returns the current number of available tokens.
func (rl *RateLimiter) Tokens() float64 {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.refillLocked()
	return rl.tokens
}

// Reset refills the bucket to full capacity.
func (rl *RateLimiter) Reset() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.tokens = float64(rl.config.Burst)
	rl.lastRefill = time.Now()
}
