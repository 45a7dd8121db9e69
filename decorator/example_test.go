package decorator_test

import (
	"context"
	"fmt"
	"time"

	"github.com/jonwraymond/guard/bulkhead"
	"github.com/jonwraymond/guard/circuitbreaker"
	"github.com/jonwraymond/guard/decorator"
	"github.com/jonwraymond/guard/retry"
	"github.com/jonwraymond/guard/timelimiter"
)

func ExampleOf() {
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureRateThreshold: 50,
		WindowSize:           10,
	})
	b := bulkhead.New(bulkhead.Config{MaxConcurrent: 5})
	r := retry.New(retry.Config{MaxAttempts: 3, InitialDelay: time.Millisecond})
	tl := timelimiter.New(timelimiter.Config{Timeout: time.Second})

	guarded := decorator.Of(func(ctx context.Context) error {
		// Simulated remote call
		return nil
	}).
		WithTimeLimiter(tl).
		WithRetry(r).
		WithCircuitBreaker(cb).
		WithBulkhead(b).
		Decorate()

	fmt.Println("err:", guarded(context.Background()))
	// Output:
	// err: <nil>
}

func ExampleOfFunc() {
	cb := circuitbreaker.New(circuitbreaker.Config{
		FailureRateThreshold: 50,
		WindowSize:           10,
	})

	fetch := decorator.OfFunc(func(ctx context.Context) (int, error) {
		return 42, nil
	}).
		WithCircuitBreaker(cb).
		Decorate()

	n, err := fetch(context.Background())
	fmt.Println(n, err)
	// Output:
	// 42 <nil>
}
