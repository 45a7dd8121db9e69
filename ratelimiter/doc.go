// Package ratelimiter controls the rate of operations with a token
// bucket.
//
// The bucket refills continuously at Rate tokens per second up to Burst.
// Each call consumes one token; when the bucket is empty the call either
// fails fast with ErrLimited or, with WaitOnLimit set, blocks up to
// MaxWait for a token.
//
// # Usage
//
//	rl := ratelimiter.New(ratelimiter.Config{
//	    Rate:  100, // calls per second
//	    Burst: 20,
//	})
//
//	err := rl.Execute(ctx, func(ctx context.Context) error {
//	    return callRemoteService(ctx)
//	})
package ratelimiter
