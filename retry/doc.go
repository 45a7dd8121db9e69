// Package retry re-invokes failed operations with configurable backoff.
//
// An operation is attempted up to MaxAttempts times (the first call
// counts). Failures are classified by the RetryIf predicate; a
// non-retryable error propagates immediately. When all attempts are
// exhausted the caller observes the final attempt's own error, not a
// synthetic "retries exhausted" wrapper.
//
// The wait between attempts follows the configured strategy (exponential,
// linear or constant, optionally jittered) and is interruptible: if the
// caller's context is cancelled mid-wait, Execute returns ctx.Err()
// without another attempt.
//
// # Usage
//
//	r := retry.New(retry.Config{
//	    MaxAttempts:  3,
//	    InitialDelay: 100 * time.Millisecond,
//	    RetryIf: func(err error) bool {
//	        return !errors.Is(err, ErrPermanent)
//	    },
//	})
//
//	err := r.Execute(ctx, func(ctx context.Context) error {
//	    return callRemoteService(ctx)
//	})
//
// Attempt state lives entirely inside one Execute call, so a single Retry
// instance safely guards concurrent invocations.
package retry
