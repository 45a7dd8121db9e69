// Package circuitbreaker implements a failure-rate circuit breaker over a
// count-based sliding window.
//
// The breaker records the outcome of the last WindowSize calls and computes
// a rolling failure rate. While the rate stays below FailureRateThreshold
// calls pass through; once it reaches the threshold the circuit opens and
// calls fail fast with ErrOpen instead of hammering an unhealthy
// dependency. After OpenTimeout the circuit goes half-open and lets a
// bounded number of trial calls probe the dependency; their outcomes decide
// whether the circuit closes again or reopens.
//
// # States
//
//   - Closed: normal operation, outcomes feed the sliding window.
//   - Open: calls are rejected immediately without invoking the operation.
//   - Half-open: up to HalfOpenMaxCalls trial calls are allowed through;
//     further calls are rejected until the trial concludes.
//
// The failure rate is only evaluated once MinimumCalls outcomes have been
// recorded, so a cold breaker never trips on a handful of samples.
//
// # Usage
//
//	cb := circuitbreaker.New(circuitbreaker.Config{
//	    FailureRateThreshold: 20,
//	    WindowSize:           5,
//	    OpenTimeout:          10 * time.Second,
//	})
//
//	err := cb.Execute(ctx, func(ctx context.Context) error {
//	    return callRemoteService(ctx)
//	})
//	if errors.Is(err, circuitbreaker.ErrOpen) {
//	    // rejected without invoking the operation
//	}
//
// Decorate returns a guarded operation with the same shape as the one
// passed in, for callers that prefer wrapping once and invoking many times:
//
//	guarded := cb.Decorate(callRemoteService)
//	err := guarded(ctx)
//
// Callers that cannot wrap the call in a closure drive the breaker
// manually with TryAcquirePermission and RecordResult, or with
// AcquirePermission when several calls are in flight at once:
//
//	if p, ok := cb.AcquirePermission(); ok {
//	    p.Record(callRemoteService(ctx))
//	}
//
// Each breaker owns its state; constructing two breakers from the same
// Config yields fully independent instances.
package circuitbreaker
