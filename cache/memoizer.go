package cache

import (
	"context"
	"time"
)

// ValueOperation is a value-returning call whose successful results can be
// memoized, typically a lookup against a remote service.
type ValueOperation func(ctx context.Context, input any) ([]byte, error)

// Config configures a Memoizer.
type Config struct {
	// Name identifies the operation and namespaces its cache keys.
	Name string

	// Store holds memoized results. Required.
	Store Store

	// Keyer derives cache keys from inputs. Defaults to DefaultKeyer.
	Keyer Keyer

	// Policy controls TTLs. Defaults to DefaultPolicy.
	Policy Policy

	// TTL overrides the policy's default TTL when positive.
	TTL time.Duration
}

// Memoizer wraps value-returning operations with result caching.
// Failed calls are never cached.
type Memoizer struct {
	name   string
	store  Store
	keyer  Keyer
	policy Policy
	ttl    time.Duration
}

// New creates a Memoizer from the given configuration.
func New(config Config) (*Memoizer, error) {
	if config.Store == nil {
		return nil, ErrNilStore
	}
	keyer := config.Keyer
	if keyer == nil {
		keyer = &DefaultKeyer{}
	}
	policy := config.Policy
	if policy == (Policy{}) {
		policy = DefaultPolicy()
	}
	return &Memoizer{
		name:   config.Name,
		store:  config.Store,
		keyer:  keyer,
		policy: policy,
		ttl:    config.TTL,
	}, nil
}

// Execute runs op, consulting the cache first. On a hit the cached value is
// returned without invoking op. On a miss, op runs and a successful result is
// stored for the policy's effective TTL. Errors from op pass through uncached.
func (m *Memoizer) Execute(ctx context.Context, input any, op ValueOperation) ([]byte, error) {
	if !m.policy.ShouldCache() {
		return op(ctx, input)
	}

	key, err := m.keyer.Key(m.name, input)
	if err != nil {
		// An unkeyable input disables memoization for this call only.
		return op(ctx, input)
	}

	if value, ok := m.store.Get(ctx, key); ok {
		return value, nil
	}

	value, err := op(ctx, input)
	if err != nil {
		return nil, err
	}

	// Best effort: a store failure must not fail the call.
	_ = m.store.Set(ctx, key, value, m.policy.EffectiveTTL(m.ttl))
	return value, nil
}

// Decorate wraps op so that every invocation goes through Execute.
func (m *Memoizer) Decorate(op ValueOperation) ValueOperation {
	return func(ctx context.Context, input any) ([]byte, error) {
		return m.Execute(ctx, input, op)
	}
}

// Invalidate removes the memoized result for the given input, if any.
func (m *Memoizer) Invalidate(ctx context.Context, input any) error {
	key, err := m.keyer.Key(m.name, input)
	if err != nil {
		return err
	}
	return m.store.Delete(ctx, key)
}
