package bulkhead

import (
	"context"
	"errors"
	"sync"
	"time"

	"golang.org/x/sync/semaphore"
)

// ErrFull is returned when no permit became available within MaxWait.
// The protected operation is not invoked.
var ErrFull = errors.New("bulkhead: at capacity")

// Operation is the signature for protected operations.
type Operation func(ctx context.Context) error

// Config configures the bulkhead.
type Config struct {
	// MaxConcurrent is the maximum number of concurrent calls.
	// Default: 10
	MaxConcurrent int

	// MaxWait is the maximum time to wait for a permit.
	// Default: 0 (no waiting, fail immediately)
	MaxWait time.Duration
}

// Bulkhead caps the number of in-flight calls through a counting permit
// pool. Safe for concurrent use; the permit count never goes negative or
// above MaxConcurrent.
type Bulkhead struct {
	config Config
	sem    *semaphore.Weighted

	mu       sync.Mutex
	active   int
	peak     int
	rejected int64
}

// New creates a new bulkhead.
func New(config Config) *Bulkhead {
	// Apply defaults
	if config.MaxConcurrent < 1 {
		config.MaxConcurrent = 10
	}

	return &Bulkhead{
		config: config,
		sem:    semaphore.NewWeighted(int64(config.MaxConcurrent)),
	}
}

// Acquire takes one permit, blocking up to MaxWait when none is free.
// Returns ErrFull when the wait expires and ctx.Err() when the caller's
// own context is cancelled first.
func (b *Bulkhead) Acquire(ctx context.Context) error {
	// Fast path: non-blocking acquire.
	if b.sem.TryAcquire(1) {
		b.noteAcquired()
		return nil
	}

	if b.config.MaxWait <= 0 {
		b.noteRejected()
		return ErrFull
	}

	waitCtx, cancel := context.WithTimeout(ctx, b.config.MaxWait)
	defer cancel()

	if err := b.sem.Acquire(waitCtx, 1); err != nil {
		// The caller's cancellation wins over the wait timer.
		if ctx.Err() != nil {
			return ctx.Err()
		}
		b.noteRejected()
		return ErrFull
	}

	b.noteAcquired()
	return nil
}

// TryAcquirePermission takes one permit without blocking. A true return
// means the caller holds a permit and must Release it.
func (b *Bulkhead) TryAcquirePermission() bool {
	if b.sem.TryAcquire(1) {
		b.noteAcquired()
		return true
	}
	return false
}

// Release returns one permit. Releasing without a matching acquire is a
// no-op.
func (b *Bulkhead) Release() {
	b.mu.Lock()
	if b.active == 0 {
		b.mu.Unlock()
		return
	}
	b.active--
	b.mu.Unlock()

	b.sem.Release(1)
}

// Execute runs the operation within the bulkhead. The permit is released
// on every exit path, including the operation panicking.
func (b *Bulkhead) Execute(ctx context.Context, op Operation) error {
	if err := b.Acquire(ctx); err != nil {
		return err
	}
	defer b.Release()

	return op(ctx)
}

// Decorate wraps the operation with bulkhead protection. The returned
// operation has the same shape as the one passed in.
func (b *Bulkhead) Decorate(op Operation) Operation {
	return func(ctx context.Context) error {
		return b.Execute(ctx, op)
	}
}

// Do runs an operation that returns a value within the bulkhead.
func Do[T any](ctx context.Context, b *Bulkhead, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := b.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

func (b *Bulkhead) noteAcquired() {
	b.mu.Lock()
	b.active++
	if b.active > b.peak {
		b.peak = b.active
	}
	b.mu.Unlock()
}

func (b *Bulkhead) noteRejected() {
	b.mu.Lock()
	b.rejected++
	b.mu.Unlock()
}

// Metrics returns a snapshot of bulkhead statistics.
func (b *Bulkhead) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()

	return Metrics{
		Active:        b.active,
		Peak:          b.peak,
		Available:     b.config.MaxConcurrent - b.active,
		MaxConcurrent: b.config.MaxConcurrent,
		Rejected:      b.rejected,
	}
}

// Metrics contains bulkhead statistics.
type Metrics struct {
	Active        int
	Peak          int
	Available     int
	MaxConcurrent int
	Rejected      int64
}
