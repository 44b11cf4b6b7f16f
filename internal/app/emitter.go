package app

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/miteshsondhi/swagger-stats/internal/domain"
	"github.com/miteshsondhi/swagger-stats/internal/ports"
	"github.com/miteshsondhi/swagger-stats/pkg/log"
)

const (
	// MaxBufferedRecords is the record count that forces a flush.
	MaxBufferedRecords = 50

	// FlushInterval is how stale a non-empty buffer may get before Tick
	// flushes it.
	FlushInterval = time.Second

	// DefaultIndexPrefix is used when no prefix is configured.
	DefaultIndexPrefix = "api-"
)

// EmitterConfig contains tuning for the emitter.
type EmitterConfig struct {
	// WriteTimeout bounds each bulk write and the template bootstrap.
	// Zero leaves the timeout to the HTTP client.
	WriteTimeout time.Duration

	// Clock returns the current time. Defaults to time.Now.
	Clock func() time.Time

	// NewID generates ids for records that arrive without one.
	// Defaults to random UUIDs.
	NewID func() string
}

// Emitter buffers records as bulk index operations and ships them to the
// backend when the buffer is full or stale.
//
// Buffer mutation happens under a single lock; the network write runs on
// its own goroutine with a private copy of the payload, so a new buffer can
// fill while the previous one is in flight. A failed write is logged and
// its records are dropped.
type Emitter struct {
	mu          sync.Mutex
	enabled     bool
	initialized bool
	indexPrefix string
	batch       *domain.Batch
	lastFlush   time.Time
	backend     ports.Backend

	config   EmitterConfig
	logger   ports.Logger
	metrics  *Metrics
	inflight inflight
}

var _ ports.RecordSink = (*Emitter)(nil)

// NewEmitter creates a disabled emitter. Call Initialize to enable it.
func NewEmitter(config EmitterConfig, logger ports.Logger, metrics *Metrics) *Emitter {
	if config.Clock == nil {
		config.Clock = time.Now
	}
	if config.NewID == nil {
		config.NewID = func() string { return uuid.NewString() }
	}
	if metrics == nil {
		metrics = NewMetrics(nil)
	}
	if logger == nil {
		logger = log.NewNoopLogger()
	}
	return &Emitter{
		indexPrefix: DefaultIndexPrefix,
		batch:       domain.NewBatch(),
		config:      config,
		logger:      logger,
		metrics:     metrics,
	}
}

// Initialize attaches the backend and enables the emitter. A nil backend
// leaves the emitter disabled, which is not an error. The index template
// bootstrap is started in the background and is not waited for.
func (e *Emitter) Initialize(backend ports.Backend, indexPrefix string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.initialized {
		return domain.ErrAlreadyInitialized
	}
	if backend == nil {
		e.logger.Debug("elasticsearch is disabled")
		return nil
	}

	e.initialized = true
	if indexPrefix != "" {
		e.indexPrefix = indexPrefix
	}
	e.backend = backend

	prefix := e.indexPrefix
	e.inflight.Go(func() {
		ctx, cancel := e.writeContext()
		defer cancel()
		if err := Bootstrap(ctx, backend, prefix, e.logger); err != nil {
			e.metrics.bootstrapFailures.Inc()
			e.logger.Error("index template bootstrap failed", ports.Err(err))
		}
	})

	e.enabled = true
	e.logger.Info("elasticsearch emitter enabled", ports.String("index_prefix", e.indexPrefix))
	return nil
}

// Enabled reports whether records are being accepted.
func (e *Emitter) Enabled() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.enabled
}

// IndexPrefix returns the prefix daily index names start with.
func (e *Emitter) IndexPrefix() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.indexPrefix
}

// Buffered returns the number of records waiting for the next flush.
func (e *Emitter) Buffered() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.batch.Count()
}

// LastFlush returns when the last flush was started.
func (e *Emitter) LastFlush() time.Time {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastFlush
}

// ProcessRecord preprocesses r, appends it to the buffer and flushes when
// the buffer reaches MaxBufferedRecords. Records are dropped while the
// emitter is disabled.
//
// r may be modified: custom attributes are coerced and a missing id is
// filled in. An unparsable @timestamp files the record under today's UTC
// index.
func (e *Emitter) ProcessRecord(r domain.Record) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if !e.enabled {
		e.metrics.recordsDropped.Inc()
		return
	}

	domain.Preprocess(r)

	if r.ID() == "" {
		r[domain.FieldID] = e.config.NewID()
		e.metrics.malformedRecords.WithLabelValues(ReasonID).Inc()
	}

	ts, ok := domain.ParseTimestamp(r[domain.FieldTimestamp])
	if !ok {
		ts = e.config.Clock()
		e.metrics.malformedRecords.WithLabelValues(ReasonTimestamp).Inc()
		e.logger.Warn("malformed record timestamp",
			ports.String("id", r.ID()),
			ports.Any("timestamp", r[domain.FieldTimestamp]),
		)
	}

	if err := e.batch.Add(domain.IndexName(e.indexPrefix, ts), r); err != nil {
		e.metrics.malformedRecords.WithLabelValues(ReasonEncode).Inc()
		e.logger.Warn("dropping record", ports.String("id", r.ID()), ports.Err(err))
		return
	}
	e.metrics.recordsBuffered.Inc()

	if e.batch.Count() >= MaxBufferedRecords {
		e.flushLocked(e.config.Clock(), TriggerSize)
	}
}

// Tick flushes the buffer when it holds records and the last flush was at
// least FlushInterval before now. It is meant to be called about once a
// second; totalElapsed is the host's uptime and does not affect the policy.
func (e *Emitter) Tick(now time.Time, totalElapsed time.Duration) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.batch.Count() > 0 && now.Sub(e.lastFlush) >= FlushInterval {
		e.flushLocked(now, TriggerTime)
	}
}

// Flush submits whatever is buffered right away.
func (e *Emitter) Flush() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.flushLocked(e.config.Clock(), TriggerManual)
}

// Drain waits for in-flight writes and the template bootstrap to finish.
// Records still buffered are not flushed.
func (e *Emitter) Drain(ctx context.Context) error {
	return e.inflight.Wait(ctx)
}

// Close flushes the buffer, disables the emitter and waits for in-flight
// work until ctx is done.
func (e *Emitter) Close(ctx context.Context) error {
	e.mu.Lock()
	e.flushLocked(e.config.Clock(), TriggerClose)
	e.enabled = false
	e.mu.Unlock()

	return e.inflight.Wait(ctx)
}

// flushLocked stamps the flush time, detaches the buffer and submits it.
// The buffer is empty when it returns, whatever the write's outcome.
// Caller must hold e.mu.
func (e *Emitter) flushLocked(now time.Time, trigger string) {
	if !e.enabled {
		return
	}
	e.lastFlush = now
	if e.batch.Empty() {
		return
	}

	payload, count := e.batch.Take()
	e.metrics.flushes.WithLabelValues(trigger).Inc()
	e.metrics.flushedRecords.Add(float64(count))
	e.metrics.inflightWrites.Inc()

	backend := e.backend
	e.inflight.Go(func() {
		defer e.metrics.inflightWrites.Dec()
		e.write(backend, payload, count, trigger)
	})
}

func (e *Emitter) write(backend ports.BulkWriter, payload []byte, count int, trigger string) {
	ctx, cancel := e.writeContext()
	defer cancel()

	start := time.Now()
	if err := backend.Bulk(ctx, payload); err != nil {
		e.metrics.flushFailures.Inc()
		e.metrics.recordsLost.Add(float64(count))
		e.logger.Error("bulk write failed",
			ports.Err(err),
			ports.Int("records", count),
			ports.Int("bytes", len(payload)),
			ports.String("trigger", trigger),
		)
		return
	}

	e.logger.Debug("bulk write",
		ports.Int("records", count),
		ports.Int("bytes", len(payload)),
		ports.String("trigger", trigger),
		ports.Duration("duration", time.Since(start)),
	)
}

// writeContext is detached from any caller: once submitted, a write is not
// cancelled by shutdown.
func (e *Emitter) writeContext() (context.Context, context.CancelFunc) {
	if e.config.WriteTimeout > 0 {
		return context.WithTimeout(context.Background(), e.config.WriteTimeout)
	}
	return context.WithCancel(context.Background())
}
