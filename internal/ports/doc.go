// Package ports defines the interfaces that connect the emitter engine to
// the outside world.
//
//   - [BulkWriter]: submits a newline-delimited bulk payload
//   - [TemplateStore]: checks for and installs the index template
//   - [HTTPClient]: request execution, satisfied by *http.Client
//   - [RecordSource], [RecordSink]: what the CLI host loop reads from and feeds
//   - [Logger]: structured logging
//
// The engine in internal/app depends only on these interfaces; the
// Elasticsearch adapter in internal/adapters/http implements them.
package ports
