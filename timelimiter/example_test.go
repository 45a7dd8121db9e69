package timelimiter_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/guard/timelimiter"
)

func ExampleNew() {
	tl := timelimiter.New(timelimiter.Config{
		Timeout: time.Second,
	})

	err := tl.Execute(context.Background(), func(ctx context.Context) error {
		// Completes well within the budget
		return nil
	})

	fmt.Println("err:", err)
	// Output:
	// err: <nil>
}

func ExampleTimeLimiter_Execute_timeout() {
	tl := timelimiter.New(timelimiter.Config{
		Timeout: 10 * time.Millisecond,
	})

	err := tl.Execute(context.Background(), func(ctx context.Context) error {
		select {
		case <-time.After(time.Minute): // far too slow
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	})

	fmt.Println("timed out:", errors.Is(err, timelimiter.ErrTimeout))
	// Output:
	// timed out: true
}

func ExampleWithin() {
	err := timelimiter.Within(context.Background(), time.Second, func(ctx context.Context) error {
		return nil
	})

	fmt.Println("err:", err)
	// Output:
	// err: <nil>
}
