// Package cache memoizes the results of value-returning operations.
//
// A Memoizer wraps a remote lookup so repeated calls with the same input are
// served from a Store instead of re-invoking the operation. Keys are derived
// deterministically from the operation name and a canonical JSON encoding of
// the input. Only successful results are stored; errors always pass through.
//
//	store := cache.NewMemory()
//	memo, _ := cache.New(cache.Config{Name: "profile", Store: store})
//	lookup := memo.Decorate(fetchProfile)
//	data, err := lookup(ctx, userID)
//
// TTLs come from a Policy, which applies a default and clamps overrides to a
// maximum. A zero-valued policy disables memoization entirely.
package cache
