package emitter

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"

	httpAdapter "github.com/miteshsondhi/swagger-stats/internal/adapters/http"
	"github.com/miteshsondhi/swagger-stats/internal/app"
	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
)

// Record is one request/response record. Required keys are "id" and
// "@timestamp"; "attrs" and "attrsint" hold custom attributes.
type Record = domain.Record

// Emitter buffers records and ships them in bulk. It is safe for concurrent
// use. The zero value is not usable; call New.
type Emitter struct {
	opts options
	core *app.Emitter
}

var _ ports.RecordSink = (*Emitter)(nil)

// New creates a disabled emitter.
func New(opts ...Option) *Emitter {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Emitter{
		opts: o,
		core: app.NewEmitter(app.EmitterConfig{Clock: o.clock}, o.logger, app.NewMetrics(o.registerer)),
	}
}

// Initialize connects the emitter to the cluster in cfg and enables it.
// An empty endpoint leaves it disabled and returns nil. The index template
// is checked and created in the background; a failure there is logged and
// does not prevent enabling.
func (e *Emitter) Initialize(cfg Config) error {
	if !cfg.Enabled() {
		return e.core.Initialize(nil, "")
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return err
	}

	backend := e.opts.backend
	if backend == nil {
		client, err := httpAdapter.NewClient(cfg.Endpoint, e.httpClient(cfg))
		if err != nil {
			return err
		}
		backend = client
	}
	return e.core.Initialize(backend, cfg.IndexPrefix)
}

// httpClient picks the transport: signed when credentials are present,
// otherwise the injected client or a plain one.
func (e *Emitter) httpClient(cfg Config) ports.HTTPClient {
	if c := cfg.Credentials; c != nil {
		creds := aws.Credentials{
			AccessKeyID:     c.AccessKeyID,
			SecretAccessKey: c.SecretAccessKey,
			SessionToken:    c.SessionToken,
		}
		return &http.Client{
			Timeout:   cfg.HTTPTimeout,
			Transport: httpAdapter.NewSigningTransport(http.DefaultTransport, creds, c.Region, c.Service),
		}
	}
	if e.opts.httpClient != nil {
		return e.opts.httpClient
	}
	return &http.Client{Timeout: cfg.HTTPTimeout}
}

// ProcessRecord buffers r. It never blocks on the network and never
// fails; r may be modified in place.
func (e *Emitter) ProcessRecord(r Record) {
	e.core.ProcessRecord(r)
}

// Tick flushes a stale, non-empty buffer. Call it about once a second.
func (e *Emitter) Tick(now time.Time, totalElapsed time.Duration) {
	e.core.Tick(now, totalElapsed)
}

// Flush sends what is buffered now.
func (e *Emitter) Flush() {
	e.core.Flush()
}

// Drain waits for in-flight writes without flushing the buffer.
func (e *Emitter) Drain(ctx context.Context) error {
	return e.core.Drain(ctx)
}

// Close flushes, disables the emitter and waits for in-flight writes until
// ctx is done.
func (e *Emitter) Close(ctx context.Context) error {
	if err := e.core.Close(ctx); err != nil {
		return fmt.Errorf("close emitter: %w", err)
	}
	return nil
}

// Enabled reports whether records are being accepted.
func (e *Emitter) Enabled() bool {
	return e.core.Enabled()
}

// Buffered returns the number of records waiting to be flushed.
func (e *Emitter) Buffered() int {
	return e.core.Buffered()
}
