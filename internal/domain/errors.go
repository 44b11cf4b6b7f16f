package domain

import "errors"

// Errors returned by the emitter. Check with errors.Is.
var (
	// ErrInvalidConfig is returned when configuration validation fails.
	ErrInvalidConfig = errors.New("emitter: invalid configuration")

	// ErrAlreadyInitialized is returned when Initialize is called twice.
	ErrAlreadyInitialized = errors.New("emitter: already initialized")

	// ErrShutdownTimeout is returned when in-flight writes outlive Close.
	ErrShutdownTimeout = errors.New("emitter: shutdown timeout")

	// ErrBackend wraps any non-2xx answer from the search backend.
	ErrBackend = errors.New("emitter: backend error")

	// ErrBulkItems is returned when the bulk call succeeded but one or more
	// documents were rejected.
	ErrBulkItems = errors.New("emitter: bulk items rejected")

	// ErrUnencodable marks a record that cannot be serialized to JSON.
	ErrUnencodable = errors.New("emitter: record not encodable")
)

// Shipper lifecycle errors.
var (
	// ErrAlreadyRunning is returned when Start is called on a running shipper.
	ErrAlreadyRunning = errors.New("shipper: already running")

	// ErrNotRunning is returned when Stop is called on a stopped shipper.
	ErrNotRunning = errors.New("shipper: not running")
)
