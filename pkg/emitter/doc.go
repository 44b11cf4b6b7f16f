// Package emitter batches request/response records and ships them to
// Elasticsearch (or Amazon OpenSearch) with the _bulk API.
//
// # Basic Usage
//
//	e := emitter.New(emitter.WithLogger(logger))
//	if err := e.Initialize(emitter.Config{
//	    Endpoint:    "http://localhost:9200",
//	    IndexPrefix: "api-",
//	}); err != nil {
//	    log.Fatal(err)
//	}
//
//	// for every completed request
//	e.ProcessRecord(emitter.Record{"id": id, "@timestamp": ts, ...})
//
//	// about once a second
//	e.Tick(time.Now(), time.Since(start))
//
//	// on shutdown
//	_ = e.Close(ctx)
//
// # Buffering
//
// Records are serialized into a bulk buffer. The buffer is flushed when it
// holds 50 records, or when Tick finds it non-empty and the last flush is at
// least one second old. Each flush is sent on its own goroutine; the caller
// never waits for the network. Failed writes are logged and their records
// are lost.
//
// Records go to daily indices named IndexPrefix + YYYY.MM.DD, taken from
// the record's @timestamp in UTC. Records with an unparsable timestamp go
// to the index for the current UTC date; records without an id get a
// random UUID.
//
// # Disabled Mode
//
// Without an Endpoint the emitter stays disabled: every call is a no-op and
// records are dropped. This is the default.
//
// # Authentication
//
// When Credentials are set, requests are signed with AWS Signature
// Version 4, as required by Amazon OpenSearch Service domains.
package emitter
