// Package timelimiter enforces a maximum duration on operations.
//
// Execute races the operation against a timer. When the operation wins,
// its result or error passes through unchanged. When the timer wins, the
// caller immediately receives ErrTimeout and the context handed to the
// operation is cancelled. The cancellation is best-effort, the operation
// may take time to observe it, but the caller never waits for it.
//
// # Usage
//
//	tl := timelimiter.New(timelimiter.Config{
//	    Timeout: 2 * time.Second,
//	})
//
//	err := tl.Execute(ctx, func(ctx context.Context) error {
//	    return slowRemoteCall(ctx)
//	})
//	if errors.Is(err, timelimiter.ErrTimeout) {
//	    // the call exceeded its budget
//	}
//
// For a one-off limit without constructing a policy:
//
//	err := timelimiter.Within(ctx, time.Second, op)
package timelimiter
