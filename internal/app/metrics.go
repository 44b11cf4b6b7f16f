package app

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsPrefix is prepended to every emitter metric name.
const MetricsPrefix = "sws_elastic_"

// Flush triggers, used as the trigger label on flushes_total.
const (
	TriggerSize   = "size"
	TriggerTime   = "time"
	TriggerManual = "manual"
	TriggerClose  = "close"
)

// Reasons a record was considered malformed.
const (
	ReasonTimestamp = "timestamp"
	ReasonID        = "id"
	ReasonEncode    = "encode"
)

// Metrics holds the emitter's Prometheus collectors.
type Metrics struct {
	recordsBuffered   prometheus.Counter
	recordsDropped    prometheus.Counter
	malformedRecords  *prometheus.CounterVec
	flushes           *prometheus.CounterVec
	flushedRecords    prometheus.Counter
	flushFailures     prometheus.Counter
	recordsLost       prometheus.Counter
	bootstrapFailures prometheus.Counter
	inflightWrites    prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil reg leaves them unregistered, which is what tests want.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		recordsBuffered: f.NewCounter(prometheus.CounterOpts{
			Name: MetricsPrefix + "records_buffered_total",
			Help: "Records accepted into the bulk buffer",
		}),
		recordsDropped: f.NewCounter(prometheus.CounterOpts{
			Name: MetricsPrefix + "records_dropped_total",
			Help: "Records discarded because the emitter is disabled",
		}),
		malformedRecords: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "malformed_records_total",
			Help: "Records with a missing id, an unparsable timestamp or a body that cannot be encoded",
		}, []string{"reason"}),
		flushes: f.NewCounterVec(prometheus.CounterOpts{
			Name: MetricsPrefix + "flushes_total",
			Help: "Bulk writes submitted, by what triggered them",
		}, []string{"trigger"}),
		flushedRecords: f.NewCounter(prometheus.CounterOpts{
			Name: MetricsPrefix + "flushed_records_total",
			Help: "Records handed to the backend in bulk writes",
		}),
		flushFailures: f.NewCounter(prometheus.CounterOpts{
			Name: MetricsPrefix + "flush_failures_total",
			Help: "Bulk writes that failed",
		}),
		recordsLost: f.NewCounter(prometheus.CounterOpts{
			Name: MetricsPrefix + "records_lost_total",
			Help: "Records in bulk writes that failed",
		}),
		bootstrapFailures: f.NewCounter(prometheus.CounterOpts{
			Name: MetricsPrefix + "bootstrap_failures_total",
			Help: "Index template checks or installs that failed",
		}),
		inflightWrites: f.NewGauge(prometheus.GaugeOpts{
			Name: MetricsPrefix + "inflight_writes",
			Help: "Bulk writes submitted and not yet finished",
		}),
	}
}
