package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrOpen is returned when the circuit is open or the half-open trial
// quota is exhausted. The protected operation is not invoked.
var ErrOpen = errors.New("circuitbreaker: circuit is open")

// errPanicked is recorded as the outcome of an operation that panicked.
var errPanicked = errors.New("circuitbreaker: operation panicked")

// Operation is the signature for protected operations.
type Operation func(ctx context.Context) error

// State represents the circuit breaker state.
type State int

const (
	// StateClosed means the circuit is operating normally.
	StateClosed State = iota
	// StateOpen means the circuit is rejecting all requests.
	StateOpen
	// StateHalfOpen means the circuit is testing if the service recovered.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
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

// Clock abstracts the time source so open-state timeouts can be tested
// deterministically. The zero value of Config uses the system clock.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// Config configures the circuit breaker.
type Config struct {
	// FailureRateThreshold is the failure percentage (0-100) at or above
	// which the circuit opens.
	// Default: 50
	FailureRateThreshold float64

	// WindowSize is the number of most recent call outcomes retained in
	// the sliding window.
	// Default: 10
	WindowSize int

	// MinimumCalls is the number of recorded outcomes required before the
	// failure rate is evaluated. Until then the breaker stays closed
	// regardless of outcomes. Clamped to WindowSize.
	// Default: WindowSize
	MinimumCalls int

	// OpenTimeout is how long the circuit stays open before allowing
	// half-open trial calls.
	// Default: 30 seconds
	OpenTimeout time.Duration

	// HalfOpenMaxCalls is the number of trial calls permitted while
	// half-open.
	// Default: 1
	HalfOpenMaxCalls int

	// IsFailure determines if an error should count as a failure.
	// Default: all non-nil errors are failures.
	IsFailure func(err error) bool

	// OnStateChange is called when the circuit state changes. It runs
	// while internal state is locked and must not call back into the
	// breaker.
	OnStateChange func(from, to State)

	// Clock is the time source.
	// Default: system clock.
	Clock Clock
}

// CircuitBreaker tracks recent call outcomes in a sliding window and
// short-circuits calls while the failure rate is at or above the
// configured threshold. Safe for concurrent use.
type CircuitBreaker struct {
	config Config

	mu         sync.Mutex
	state      State
	window     *window // closed-state outcomes
	trial      *window // half-open trial outcomes, nil outside half-open
	openedAt   time.Time
	trialCalls int    // permits handed out in the current half-open episode
	generation uint64 // bumped on every transition; stale outcomes are dropped
	manualGen  uint64 // episode of the latest TryAcquirePermission
	rejected   int64
}

// New creates a new circuit breaker.
func New(config Config) *CircuitBreaker {
	// Apply defaults
	if config.WindowSize < 1 {
		config.WindowSize = 10
	}
	if config.FailureRateThreshold <= 0 || config.FailureRateThreshold > 100 {
		config.FailureRateThreshold = 50
	}
	if config.MinimumCalls < 1 || config.MinimumCalls > config.WindowSize {
		config.MinimumCalls = config.WindowSize
	}
	if config.OpenTimeout <= 0 {
		config.OpenTimeout = 30 * time.Second
	}
	if config.HalfOpenMaxCalls < 1 {
		config.HalfOpenMaxCalls = 1
	}
	if config.IsFailure == nil {
		config.IsFailure = func(err error) bool { return err != nil }
	}
	if config.Clock == nil {
		config.Clock = systemClock{}
	}

	return &CircuitBreaker{
		config: config,
		state:  StateClosed,
		window: newWindow(config.WindowSize),
	}
}

// Execute runs the operation through the circuit breaker. It returns
// ErrOpen without invoking the operation when the circuit is open or the
// half-open trial quota is exhausted; otherwise the operation's own result
// is propagated unchanged.
func (cb *CircuitBreaker) Execute(ctx context.Context, op Operation) error {
	gen, err := cb.acquire()
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil {
			// A panicking operation still completes its trial permit;
			// otherwise a half-open breaker would reject forever.
			cb.record(gen, errPanicked)
			panic(r)
		}
	}()

	opErr := op(ctx)
	cb.record(gen, opErr)
	return opErr
}

// Decorate wraps the operation with circuit breaker protection. The
// returned operation has the same shape as the one passed in.
func (cb *CircuitBreaker) Decorate(op Operation) Operation {
	return func(ctx context.Context) error {
		return cb.Execute(ctx, op)
	}
}

// Do runs an operation that returns a value through the circuit breaker.
func Do[T any](ctx context.Context, cb *CircuitBreaker, op func(context.Context) (T, error)) (T, error) {
	var result T
	err := cb.Execute(ctx, func(ctx context.Context) error {
		var opErr error
		result, opErr = op(ctx)
		return opErr
	})
	return result, err
}

// Permit admits one call obtained from AcquirePermission and remembers the
// episode it was issued in.
type Permit struct {
	cb  *CircuitBreaker
	gen uint64
}

// Record records the call's outcome. An outcome recorded after the breaker
// has transitioned out of the permit's episode is dropped, the same as an
// in-flight Execute finishing late.
func (p *Permit) Record(err error) {
	p.cb.record(p.gen, err)
}

// AcquirePermission requests permission for one call, consuming a trial
// permit while half-open. Concurrent manual drivers should prefer this
// over TryAcquirePermission so each outcome carries its own permit.
func (cb *CircuitBreaker) AcquirePermission() (*Permit, bool) {
	gen, err := cb.acquire()
	if err != nil {
		return nil, false
	}
	return &Permit{cb: cb, gen: gen}, true
}

// TryAcquirePermission reports whether a call would be allowed right now
// and, while half-open, consumes one trial permit. Callers driving the
// breaker manually pair it with RecordResult; callers probing state and
// not calling the operation should prefer State.
func (cb *CircuitBreaker) TryAcquirePermission() bool {
	gen, err := cb.acquire()
	if err != nil {
		return false
	}
	cb.mu.Lock()
	cb.manualGen = gen
	cb.mu.Unlock()
	return true
}

// RecordResult records the outcome of a call whose permission was obtained
// via TryAcquirePermission. The outcome lands in the episode that
// permission was granted in; a result that straddles a transition is
// dropped and never mutates the new episode.
func (cb *CircuitBreaker) RecordResult(err error) {
	cb.mu.Lock()
	gen := cb.manualGen
	cb.mu.Unlock()
	cb.record(gen, err)
}

// State returns the current circuit state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.currentStateLocked()
}

// Reset resets the circuit breaker to closed state.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateClosed {
		cb.window.reset()
		return
	}
	cb.transitionLocked(StateClosed)
}

func (cb *CircuitBreaker) acquire() (uint64, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.currentStateLocked() {
	case StateOpen:
		cb.rejected++
		return 0, ErrOpen
	case StateHalfOpen:
		if cb.trialCalls >= cb.config.HalfOpenMaxCalls {
			cb.rejected++
			return 0, ErrOpen
		}
		cb.trialCalls++
	}
	return cb.generation, nil
}

// record applies one call outcome. The window mutation and any resulting
// transition happen under a single lock hold, so concurrent outcomes
// cannot interleave into an inconsistent window or a double transition.
func (cb *CircuitBreaker) record(gen uint64, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	// The breaker transitioned while this call was in flight. Its outcome
	// belongs to the previous episode and must not mutate the new one; in
	// particular a trial call finishing late never reopens a closed circuit.
	if gen != cb.generation {
		return
	}

	failed := cb.config.IsFailure(err)

	switch cb.state {
	case StateClosed:
		cb.window.record(failed)
		if cb.window.occupied >= cb.config.MinimumCalls &&
			cb.window.failureRate() >= cb.config.FailureRateThreshold {
			cb.transitionLocked(StateOpen)
		}

	case StateHalfOpen:
		cb.trial.record(failed)
		if cb.trial.occupied >= cb.config.HalfOpenMaxCalls {
			if cb.trial.failureRate() >= cb.config.FailureRateThreshold {
				cb.transitionLocked(StateOpen)
			} else {
				cb.transitionLocked(StateClosed)
			}
		}
	}
}

// currentStateLocked returns the state, performing the lazy open to
// half-open transition once the open timeout has elapsed.
func (cb *CircuitBreaker) currentStateLocked() State {
	if cb.state == StateOpen &&
		cb.config.Clock.Now().Sub(cb.openedAt) >= cb.config.OpenTimeout {
		cb.transitionLocked(StateHalfOpen)
	}
	return cb.state
}

func (cb *CircuitBreaker) transitionLocked(to State) {
	from := cb.state
	cb.state = to
	cb.generation++

	switch to {
	case StateClosed:
		cb.window.reset()
		cb.trial = nil
	case StateOpen:
		cb.openedAt = cb.config.Clock.Now()
		cb.trial = nil
	case StateHalfOpen:
		// Each half-open episode judges the dependency on a fresh trial
		// window so prior closed-state failures cannot straddle into it.
		cb.trial = newWindow(cb.config.HalfOpenMaxCalls)
		cb.trialCalls = 0
	}

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(from, to)
	}
}

// Metrics returns a snapshot of circuit breaker statistics.
func (cb *CircuitBreaker) Metrics() Metrics {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	state := cb.currentStateLocked()
	w := cb.window
	if state == StateHalfOpen {
		w = cb.trial
	}

	return Metrics{
		State:       state,
		Calls:       w.occupied,
		Failures:    w.failures,
		FailureRate: w.failureRate(),
		Rejected:    cb.rejected,
	}
}

// Metrics contains circuit breaker statistics. Calls, Failures and
// FailureRate cover the window the current state is judged on: the closed
// sliding window, or the trial window while half-open.
type Metrics struct {
	State       State
	Calls       int
	Failures    int
	FailureRate float64
	Rejected    int64
}
