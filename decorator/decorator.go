package decorator

import (
	"context"

	"github.com/jonwraymond/guard/bulkhead"
	"github.com/jonwraymond/guard/circuitbreaker"
	"github.com/jonwraymond/guard/ratelimiter"
	"github.com/jonwraymond/guard/retry"
	"github.com/jonwraymond/guard/timelimiter"
)

// Operation is the signature for decorated operations.
type Operation func(ctx context.Context) error

// Chain builds a decorated operation by wrapping policies around it in
// the order the caller applies them: each With call wraps the operation
// built so far, so the last policy applied is the outermost.
type Chain struct {
	op Operation
}

// Of starts a chain around the given operation.
func Of(op Operation) *Chain {
	return &Chain{op: op}
}

// WithCircuitBreaker wraps the chain with a circuit breaker.
func (c *Chain) WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) *Chain {
	inner := c.op
	c.op = func(ctx context.Context) error {
		return cb.Execute(ctx, circuitbreaker.Operation(inner))
	}
	return c
}

// WithBulkhead wraps the chain with a bulkhead.
func (c *Chain) WithBulkhead(b *bulkhead.Bulkhead) *Chain {
	inner := c.op
	c.op = func(ctx context.Context) error {
		return b.Execute(ctx, bulkhead.Operation(inner))
	}
	return c
}

// WithRetry wraps the chain with retry logic.
func (c *Chain) WithRetry(r *retry.Retry) *Chain {
	inner := c.op
	c.op = func(ctx context.Context) error {
		return r.Execute(ctx, retry.Operation(inner))
	}
	return c
}

// WithTimeLimiter wraps the chain with a time limit.
func (c *Chain) WithTimeLimiter(tl *timelimiter.TimeLimiter) *Chain {
	inner := c.op
	c.op = func(ctx context.Context) error {
		return tl.Execute(ctx, timelimiter.Operation(inner))
	}
	return c
}

// WithRateLimiter wraps the chain with rate limiting.
func (c *Chain) WithRateLimiter(rl *ratelimiter.RateLimiter) *Chain {
	inner := c.op
	c.op = func(ctx context.Context) error {
		return rl.Execute(ctx, ratelimiter.Operation(inner))
	}
	return c
}

// Decorate returns the fully wrapped operation.
func (c *Chain) Decorate() Operation {
	return c.op
}

// Execute runs the fully wrapped operation once.
func (c *Chain) Execute(ctx context.Context) error {
	return c.op(ctx)
}

// Fn is the signature for decorated operations returning a value.
type Fn[T any] func(ctx context.Context) (T, error)

// ChainFunc builds a decorated value-returning operation; policies wrap
// in application order, the same as Chain.
type ChainFunc[T any] struct {
	op Fn[T]
}

// OfFunc starts a chain around a value-returning operation.
func OfFunc[T any](op Fn[T]) *ChainFunc[T] {
	return &ChainFunc[T]{op: op}
}

// WithCircuitBreaker wraps the chain with a circuit breaker.
func (c *ChainFunc[T]) WithCircuitBreaker(cb *circuitbreaker.CircuitBreaker) *ChainFunc[T] {
	inner := c.op
	c.op = func(ctx context.Context) (T, error) {
		return circuitbreaker.Do(ctx, cb, inner)
	}
	return c
}

// WithBulkhead wraps the chain with a bulkhead.
func (c *ChainFunc[T]) WithBulkhead(b *bulkhead.Bulkhead) *ChainFunc[T] {
	inner := c.op
	c.op = func(ctx context.Context) (T, error) {
		return bulkhead.Do(ctx, b, inner)
	}
	return c
}

// WithRetry wraps the chain with retry logic.
func (c *ChainFunc[T]) WithRetry(r *retry.Retry) *ChainFunc[T] {
	inner := c.op
	c.op = func(ctx context.Context) (T, error) {
		return retry.Do(ctx, r, inner)
	}
	return c
}

// WithTimeLimiter wraps the chain with a time limit.
func (c *ChainFunc[T]) WithTimeLimiter(tl *timelimiter.TimeLimiter) *ChainFunc[T] {
	inner := c.op
	c.op = func(ctx context.Context) (T, error) {
		return timelimiter.Do(ctx, tl, inner)
	}
	return c
}

// WithRateLimiter wraps the chain with rate limiting.
func (c *ChainFunc[T]) WithRateLimiter(rl *ratelimiter.RateLimiter) *ChainFunc[T] {
	inner := c.op
	c.op = func(ctx context.Context) (T, error) {
		return ratelimiter.Do(ctx, rl, inner)
	}
	return c
}

// Decorate returns the fully wrapped operation.
func (c *ChainFunc[T]) Decorate() Fn[T] {
	return c.op
}

// Execute runs the fully wrapped operation once.
func (c *ChainFunc[T]) Execute(ctx context.Context) (T, error) {
	return c.op(ctx)
}
