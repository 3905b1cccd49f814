package application

import (
	"time"

	"github.com/basilmuhammad91/property-booking-platform/internal/pkg/metrics"
)

// LockPolicy controls how a service waits for the per-property distributed lock.
type LockPolicy struct {
	TTL        time.Duration
	MaxRetries int
	RetryDelay time.Duration
}

// DefaultLockPolicy is used when no policy is configured.
var DefaultLockPolicy = LockPolicy{
	TTL:        10 * time.Second,
	MaxRetries: 3,
	RetryDelay: 100 * time.Millisecond,
}

const defaultCacheTTL = 5 * time.Minute

type options struct {
	now        func() time.Time
	metrics    *metrics.Metrics
	lockPolicy LockPolicy
	cacheTTL   time.Duration
}

// Option configures a service.
type Option func(*options)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithMetrics records operations on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithLockPolicy overrides DefaultLockPolicy.
func WithLockPolicy(p LockPolicy) Option {
	return func(o *options) { o.lockPolicy = p }
}

// WithCacheTTL sets how long availability reads stay cached.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) { o.cacheTTL = d }
}

func buildOptions(opts []Option) options {
	o := options{
		now:        time.Now,
		lockPolicy: DefaultLockPolicy,
		cacheTTL:   defaultCacheTTL,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
