package emitter

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/miteshsondhi/swagger-stats/internal/ports"
	"github.com/miteshsondhi/swagger-stats/pkg/log"
)

// HTTPClient executes requests. *http.Client satisfies it.
type HTTPClient = ports.HTTPClient

// Backend is the set of calls the emitter makes against the cluster.
// Supplying one with WithBackend bypasses the HTTP client entirely.
type Backend = ports.Backend

// Option configures optional behavior of an Emitter.
type Option func(*options)

type options struct {
	logger     log.Logger
	httpClient HTTPClient
	backend    Backend
	registerer prometheus.Registerer
	clock      func() time.Time
}

func defaultOptions() options {
	return options{
		logger: log.NewNoopLogger(),
		clock:  time.Now,
	}
}

// WithLogger sets the logger. Defaults to a no-op logger.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithHTTPClient replaces the plain HTTP client used when no credentials
// are configured.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithBackend makes Initialize use backend instead of building an HTTP
// client. The endpoint must still be set for the emitter to enable.
func WithBackend(backend Backend) Option {
	return func(o *options) {
		o.backend = backend
	}
}

// WithRegisterer registers the emitter's Prometheus metrics on reg.
// Without it metrics are kept but not exported.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) {
		o.registerer = reg
	}
}

// WithClock overrides the time source used to stamp flushes and to date
// records with unusable timestamps.
func WithClock(clock func() time.Time) Option {
	return func(o *options) {
		o.clock = clock
	}
}
