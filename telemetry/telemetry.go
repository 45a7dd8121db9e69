package telemetry

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/jonwraymond/guard/bulkhead"
	"github.com/jonwraymond/guard/circuitbreaker"
	"github.com/jonwraymond/guard/ratelimiter"
	"github.com/jonwraymond/guard/timelimiter"
)

// scope is the instrumentation scope name used for meter and tracer.
const scope = "github.com/jonwraymond/guard/telemetry"

// Error kinds distinguishing a policy interception from the operation's
// own failure.
const (
	KindNone           = ""
	KindCircuitOpen    = "circuit_open"
	KindBulkheadFull   = "bulkhead_full"
	KindTimeout        = "timeout"
	KindRateLimited    = "rate_limited"
	KindCancelled      = "cancelled"
	KindOperationError = "operation_error"
)

// ErrorKind classifies an error from a guarded call: which policy
// intercepted it, or KindOperationError when the operation's own failure
// passed through. Returns KindNone for nil.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return KindNone
	case errors.Is(err, circuitbreaker.ErrOpen):
		return KindCircuitOpen
	case errors.Is(err, bulkhead.ErrFull):
		return KindBulkheadFull
	case errors.Is(err, timelimiter.ErrTimeout):
		return KindTimeout
	case errors.Is(err, ratelimiter.ErrLimited):
		return KindRateLimited
	case errors.Is(err, context.Canceled):
		return KindCancelled
	default:
		return KindOperationError
	}
}

// Config configures the instruments.
type Config struct {
	// MeterProvider supplies the meter.
	// Default: the global otel meter provider.
	MeterProvider metric.MeterProvider

	// TracerProvider supplies the tracer.
	// Default: the global otel tracer provider.
	TracerProvider trace.TracerProvider
}

// Instruments records metrics and spans for guarded calls. The policy
// packages themselves never log or emit metrics; Instruments is the
// collaborator layered outside decoration.
type Instruments struct {
	tracer trace.Tracer

	calls       metric.Int64Counter
	rejections  metric.Int64Counter
	transitions metric.Int64Counter
	retries     metric.Int64Counter
	duration    metric.Float64Histogram
}

// New creates instruments on the given providers.
func New(config Config) (*Instruments, error) {
	if config.MeterProvider == nil {
		config.MeterProvider = otel.GetMeterProvider()
	}
	if config.TracerProvider == nil {
		config.TracerProvider = otel.GetTracerProvider()
	}

	meter := config.MeterProvider.Meter(scope)

	calls, err := meter.Int64Counter(
		"guard.calls.total",
		metric.WithDescription("Total number of guarded calls"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	rejections, err := meter.Int64Counter(
		"guard.calls.rejected",
		metric.WithDescription("Calls intercepted by a policy before reaching the operation"),
		metric.WithUnit("{call}"),
	)
	if err != nil {
		return nil, err
	}

	transitions, err := meter.Int64Counter(
		"guard.circuit.transitions",
		metric.WithDescription("Circuit breaker state transitions"),
		metric.WithUnit("{transition}"),
	)
	if err != nil {
		return nil, err
	}

	retries, err := meter.Int64Counter(
		"guard.retry.attempts",
		metric.WithDescription("Retry attempts performed after a failed call"),
		metric.WithUnit("{attempt}"),
	)
	if err != nil {
		return nil, err
	}

	duration, err := meter.Float64Histogram(
		"guard.call.duration_ms",
		metric.WithDescription("Guarded call duration in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &Instruments{
		tracer:      config.TracerProvider.Tracer(scope),
		calls:       calls,
		rejections:  rejections,
		transitions: transitions,
		retries:     retries,
		duration:    duration,
	}, nil
}
