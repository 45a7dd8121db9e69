// Package decorator composes the policy packages around one operation.
//
// Each policy already exposes Decorate on its own; this package only
// removes the closure boilerplate when several policies guard the same
// call. Ordering is entirely the caller's choice: every With call wraps
// the operation built so far, so the last policy applied sits outermost
// and sees the inner policies' errors.
//
// A common arrangement puts the time limit innermost (so retries each get
// their own budget), retry around it, the circuit breaker outside retry
// (so one logical call records one outcome), and the bulkhead outermost:
//
//	guarded := decorator.Of(callRemoteService).
//	    WithTimeLimiter(tl).
//	    WithRetry(r).
//	    WithCircuitBreaker(cb).
//	    WithBulkhead(b).
//	    Decorate()
//
//	err := guarded(ctx)
//
// OfFunc is the equivalent for operations returning a value.
package decorator
