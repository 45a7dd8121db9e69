// Package bulkhead implements the bulkhead pattern for concurrency
// isolation.
//
// A bulkhead caps how many calls may be in flight against a dependency at
// once, so one slow or saturated dependency cannot exhaust the shared
// resources of the process. Acquisition takes a permit from a bounded
// pool; when none is free the caller blocks up to MaxWait and then fails
// with ErrFull without invoking the operation. The permit is released on
// every exit path.
//
// # Usage
//
//	b := bulkhead.New(bulkhead.Config{
//	    MaxConcurrent: 10,
//	    MaxWait:       50 * time.Millisecond,
//	})
//
//	err := b.Execute(ctx, func(ctx context.Context) error {
//	    return callRemoteService(ctx)
//	})
//
// TryAcquirePermission exposes the permit pool directly for callers that
// need to probe or drive acquisition manually:
//
//	if b.TryAcquirePermission() {
//	    defer b.Release()
//	    // guarded work
//	}
//
// The permit pool is golang.org/x/sync/semaphore.Weighted, so waiters are
// served in FIFO order and woken promptly on release.
package bulkhead
