// Package swaggerstats ships API request/response records to Elasticsearch
// in bulk.
//
// Example usage:
//
//	e := swaggerstats.New(swaggerstats.WithLogger(logger))
//	if err := e.Initialize(swaggerstats.Config{Endpoint: "http://localhost:9200"}); err != nil {
//	    log.Fatal(err)
//	}
//	e.ProcessRecord(swaggerstats.Record{"id": id, "@timestamp": ts, "path": "/v1/users"})
//	// once a second:
//	e.Tick(time.Now(), time.Since(start))
package swaggerstats

import "github.com/miteshsondhi/swagger-stats/pkg/emitter"

// Emitter buffers records and flushes them to the cluster's _bulk endpoint.
type Emitter = emitter.Emitter

// Config selects the cluster. An empty Endpoint leaves the emitter disabled.
type Config = emitter.Config

// Credentials switch the emitter to AWS SigV4 signed requests.
type Credentials = emitter.Credentials

// Record is one request/response record.
type Record = emitter.Record

// Option configures an Emitter.
type Option = emitter.Option

// New creates a disabled emitter; call Initialize to enable it.
func New(opts ...Option) *Emitter {
	return emitter.New(opts...)
}

var (
	WithLogger     = emitter.WithLogger
	WithHTTPClient = emitter.WithHTTPClient
	WithBackend    = emitter.WithBackend
	WithRegisterer = emitter.WithRegisterer
	WithClock      = emitter.WithClock
)

// DefaultIndexPrefix is prepended to the daily date in index names.
const DefaultIndexPrefix = emitter.DefaultIndexPrefix

var (
	ErrInvalidConfig      = emitter.ErrInvalidConfig
	ErrAlreadyInitialized = emitter.ErrAlreadyInitialized
	ErrShutdownTimeout    = emitter.ErrShutdownTimeout
)
