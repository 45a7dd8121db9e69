package bulkhead_test

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jonwraymond/guard/bulkhead"
)

func ExampleNew() {
	b := bulkhead.New(bulkhead.Config{
		MaxConcurrent: 5,
		MaxWait:       50 * time.Millisecond,
	})

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		// Simulated remote call
		return nil
	})

	if err == nil {
		fmt.Println("call succeeded")
	}
	// Output:
	// call succeeded
}

func ExampleBulkhead_TryAcquirePermission() {
	b := bulkhead.New(bulkhead.Config{MaxConcurrent: 1})

	if b.TryAcquirePermission() {
		fmt.Println("permit acquired")
		defer b.Release()
	}

	// The single permit is held, so a second probe fails.
	fmt.Println("second probe:", b.TryAcquirePermission())
	// Output:
	// permit acquired
	// second probe: false
}

func ExampleBulkhead_Execute_saturated() {
	b := bulkhead.New(bulkhead.Config{MaxConcurrent: 1})

	// Occupy the only permit.
	b.TryAcquirePermission()
	defer b.Release()

	err := b.Execute(context.Background(), func(ctx context.Context) error {
		return nil
	})

	fmt.Println("rejected:", errors.Is(err, bulkhead.ErrFull))
	// Output:
	// rejected: true
}

func ExampleDo() {
	b := bulkhead.New(bulkhead.Config{MaxConcurrent: 2})

	n, err := bulkhead.Do(context.Background(), b, func(ctx context.Context) (int, error) {
		return 21 * 2, nil
	})

	fmt.Println(n, err)
	// Output:
	// 42 <nil>
}
