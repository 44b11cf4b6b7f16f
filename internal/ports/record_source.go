package ports

import (
	"context"
	"time"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
)

// RecordSource produces records for the shipper.
type RecordSource interface {
	// Next blocks until a record is available. It returns io.EOF when the
	// source is exhausted and ctx.Err() when ctx is done.
	Next(ctx context.Context) (domain.Record, error)

	// Close releases resources held by the source.
	Close() error
}

// RecordSink is what a host loop drives: records in, a periodic tick, and
// a final close that flushes.
type RecordSink interface {
	ProcessRecord(r domain.Record)
	Tick(now time.Time, totalElapsed time.Duration)
	Close(ctx context.Context) error
}
