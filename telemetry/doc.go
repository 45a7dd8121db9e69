// Package telemetry instruments guarded calls with OpenTelemetry.
//
// The policy packages deliberately stay silent: they neither log nor emit
// metrics. This package is the observation layer wrapped around them. It
// records, per named dependency, total calls, policy rejections, call
// durations, circuit state transitions and retry attempts, and opens a
// span per guarded invocation.
//
// # Usage
//
//	ins, err := telemetry.New(telemetry.Config{})
//	if err != nil {
//	    return err
//	}
//
//	cb := circuitbreaker.New(circuitbreaker.Config{
//	    FailureRateThreshold: 50,
//	    WindowSize:           10,
//	    OnStateChange:        ins.CircuitBreakerStateHook("billing"),
//	})
//
//	observed := ins.Middleware("billing")
//	guarded := observed(telemetry.Operation(cb.Decorate(callBilling)))
//
// ErrorKind inspects any error from a guarded call and reports which
// policy intercepted it (circuit_open, bulkhead_full, timeout,
// rate_limited) or operation_error when the dependency's own failure
// passed through.
//
// Exporter selection and provider setup belong to the embedding
// application; this package only records through the otel API and
// defaults to the global providers.
package telemetry
