package retry

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

var errTest = errors.New("test error")

func TestNew_Defaults(t *testing.T) {
	r := New(Config{})

	if r.config.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", r.config.MaxAttempts)
	}
	if r.config.InitialDelay != 100*time.Millisecond {
		t.Errorf("InitialDelay = %v, want 100ms", r.config.InitialDelay)
	}
	if r.config.MaxDelay != 30*time.Second {
		t.Errorf("MaxDelay = %v, want 30s", r.config.MaxDelay)
	}
	if r.config.Multiplier != 2.0 {
		t.Errorf("Multiplier = %f, want 2.0", r.config.Multiplier)
	}
}

func TestRetry_SuccessOnFirstAttempt(t *testing.T) {
	r := New(Config{MaxAttempts: 3})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_SuccessOnRetry(t *testing.T) {
	r := New(Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return errTest
		}
		return nil
	})

	if err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if attempts != 3 {
		t.Errorf("attempts = %d, want 3", attempts)
	}
}

// MaxAttempts of 2 against an always-failing operation: exactly two
// invocations, and the caller sees the operation's own error.
func TestRetry_ExhaustedAttemptsReturnLastError(t *testing.T) {
	r := New(Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return errTest
	})

	if err != errTest {
		t.Errorf("Execute() error = %v, want %v", err, errTest)
	}
	if attempts != 2 {
		t.Errorf("attempts = %d, want 2", attempts)
	}
}

func TestRetry_NonRetryableErrorPropagatesImmediately(t *testing.T) {
	permanent := errors.New("permanent")
	r := New(Config{
		MaxAttempts:  5,
		InitialDelay: time.Millisecond,
		RetryIf: func(err error) bool {
			return !errors.Is(err, permanent)
		},
	})

	attempts := 0
	err := r.Execute(context.Background(), func(ctx context.Context) error {
		attempts++
		return permanent
	})

	if err != permanent {
		t.Errorf("Execute() error = %v, want %v", err, permanent)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
}

func TestRetry_ContextCancellationInterruptsWait(t *testing.T) {
	r := New(Config{
		MaxAttempts:  10,
		InitialDelay: time.Second,
		Strategy:     BackoffConstant,
	})

	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	start := time.Now()
	err := r.Execute(ctx, func(ctx context.Context) error {
		attempts++
		return errTest
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Execute() error = %v, want context.Canceled", err)
	}
	if attempts != 1 {
		t.Errorf("attempts = %d, want 1", attempts)
	}
	if elapsed := time.Since(start); elapsed >= time.Second {
		t.Errorf("Execute() blocked %v through the wait, want early return", elapsed)
	}
}

func TestRetry_OnRetryCallback(t *testing.T) {
	var retries []int
	r := New(Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
		OnRetry: func(attempt int, err error, delay time.Duration) {
			retries = append(retries, attempt)
		},
	})

	_ = r.Execute(context.Background(), func(ctx context.Context) error {
		return errTest
	})

	// Retries happen after attempts 1 and 2; the final attempt is not
	// followed by a retry.
	if len(retries) != 2 || retries[0] != 1 || retries[1] != 2 {
		t.Errorf("retry callbacks = %v, want [1 2]", retries)
	}
}

func TestRetry_DelayStrategies(t *testing.T) {
	tests := []struct {
		name     string
		strategy BackoffStrategy
		attempt  int
		want     time.Duration
	}{
		{"constant first", BackoffConstant, 1, 10 * time.Millisecond},
		{"constant third", BackoffConstant, 3, 10 * time.Millisecond},
		{"linear first", BackoffLinear, 1, 10 * time.Millisecond},
		{"linear third", BackoffLinear, 3, 30 * time.Millisecond},
		{"exponential first", BackoffExponential, 1, 10 * time.Millisecond},
		{"exponential third", BackoffExponential, 3, 40 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New(Config{
				InitialDelay: 10 * time.Millisecond,
				Multiplier:   2.0,
				Strategy:     tt.strategy,
			})

			if got := r.delay(tt.attempt); got != tt.want {
				t.Errorf("delay(%d) = %v, want %v", tt.attempt, got, tt.want)
			}
		})
	}
}

func TestRetry_DelayCappedAtMax(t *testing.T) {
	r := New(Config{
		InitialDelay: time.Second,
		MaxDelay:     2 * time.Second,
		Multiplier:   10,
	})

	if got := r.delay(5); got != 2*time.Second {
		t.Errorf("delay(5) = %v, want capped 2s", got)
	}
}

func TestRetry_JitterStaysWithinBounds(t *testing.T) {
	r := New(Config{
		InitialDelay: 100 * time.Millisecond,
		Strategy:     BackoffConstant,
		Jitter:       true,
	})

	for i := 0; i < 100; i++ {
		d := r.delay(1)
		if d < 100*time.Millisecond || d > 125*time.Millisecond {
			t.Fatalf("delay = %v, want within [100ms, 125ms]", d)
		}
	}
}

// Concurrent invocations of the same decorated operation do not share
// attempt counters.
func TestRetry_ConcurrentInvocationsIndependent(t *testing.T) {
	r := New(Config{
		MaxAttempts:  2,
		InitialDelay: time.Millisecond,
	})

	var total int64
	guarded := r.Decorate(func(ctx context.Context) error {
		atomic.AddInt64(&total, 1)
		return errTest
	})

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := guarded(context.Background()); err != errTest {
				t.Errorf("guarded() error = %v, want %v", err, errTest)
			}
		}()
	}
	wg.Wait()

	// Each invocation makes exactly MaxAttempts attempts.
	if total != 20 {
		t.Errorf("total attempts = %d, want 20", total)
	}
}

func TestDo_ReturnsValueAfterRetry(t *testing.T) {
	r := New(Config{
		MaxAttempts:  3,
		InitialDelay: time.Millisecond,
	})

	attempts := 0
	got, err := Do(context.Background(), r, func(ctx context.Context) (string, error) {
		attempts++
		if attempts < 2 {
			return "", errTest
		}
		return "recovered", nil
	})

	if err != nil {
		t.Errorf("Do() error = %v", err)
	}
	if got != "recovered" {
		t.Errorf("Do() = %q, want %q", got, "recovered")
	}
}
