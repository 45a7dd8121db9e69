package telemetry

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/guard/circuitbreaker"
)

// Operation is the signature for observed operations.
type Operation func(ctx context.Context) error

// Middleware returns a wrapper recording a span, a duration measurement
// and counters for every invocation of the guarded operation. The name
// identifies the protected dependency in metric attributes and span
// names. Errors from the wrapped operation are recorded and propagated
// unchanged.
func (i *Instruments) Middleware(name string) func(Operation) Operation {
	return func(op Operation) Operation {
		return func(ctx context.Context) error {
			ctx, span := i.tracer.Start(ctx, "guard."+name,
				trace.WithAttributes(attribute.String("guard.name", name)))

			start := time.Now()
			err := op(ctx)
			elapsed := time.Since(start)

			kind := ErrorKind(err)
			opt := metric.WithAttributes(
				attribute.String("guard.name", name),
				attribute.String("guard.error.kind", kind),
			)

			i.calls.Add(ctx, 1, opt)
			i.duration.Record(ctx, float64(elapsed.Milliseconds()), opt)

			switch kind {
			case KindCircuitOpen, KindBulkheadFull, KindTimeout, KindRateLimited:
				i.rejections.Add(ctx, 1, opt)
			}

			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				span.SetAttributes(attribute.String("guard.error.kind", kind))
			}
			span.End()

			return err
		}
	}
}

// CircuitBreakerStateHook returns a callback for the circuit breaker's
// OnStateChange config field. It records one transition per state change
// with from/to attributes. The hook runs while breaker state is locked,
// so it only touches the counter.
func (i *Instruments) CircuitBreakerStateHook(name string) func(from, to circuitbreaker.State) {
	return func(from, to circuitbreaker.State) {
		i.transitions.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("guard.name", name),
			attribute.String("guard.circuit.from", from.String()),
			attribute.String("guard.circuit.to", to.String()),
		))
	}
}

// RetryHook returns a callback for the retry policy's OnRetry config
// field. It records one attempt per retry with the attempt number.
func (i *Instruments) RetryHook(name string) func(attempt int, err error, delay time.Duration) {
	return func(attempt int, err error, delay time.Duration) {
		i.retries.Add(context.Background(), 1, metric.WithAttributes(
			attribute.String("guard.name", name),
			attribute.Int("guard.retry.attempt", attempt),
			attribute.String("guard.error.kind", ErrorKind(err)),
		))
	}
}
