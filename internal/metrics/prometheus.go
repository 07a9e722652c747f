package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics contains all Prometheus metrics for the dataset builder
type Metrics struct {
	// Source file metrics
	FilesProcessed prometheus.Counter
	FilesSkipped   prometheus.Counter
	DecodeErrors   prometheus.Counter

	// Segment metrics
	SegmentsWritten    prometheus.Counter
	SegmentsRejected   prometheus.Counter
	ShortClipsRejected prometheus.Counter

	// Bucket fill levels
	BucketFiles *prometheus.GaugeVec

	// Run metrics
	RunDuration prometheus.Gauge

	// HTTP API metrics
	HTTPRequests        *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers all metrics with the given registerer.
// Tests pass a private registry; the binary uses prometheus.DefaultRegisterer.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		FilesProcessed: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_files_processed_total",
			Help: "Total number of source files processed and recorded",
		}),
		FilesSkipped: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_files_skipped_total",
			Help: "Total number of source files skipped as already processed",
		}),
		DecodeErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_decode_errors_total",
			Help: "Total number of source files that failed to decode",
		}),
		SegmentsWritten: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_segments_written_total",
			Help: "Total number of segments written to disk",
		}),
		SegmentsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_segments_rejected_total",
			Help: "Total number of candidate windows rejected for insufficient energy",
		}),
		ShortClipsRejected: factory.NewCounter(prometheus.CounterOpts{
			Name: "dataset_short_clips_rejected_total",
			Help: "Total number of short clips rejected for insufficient energy",
		}),
		BucketFiles: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "dataset_bucket_files",
			Help: "Number of output files written per (domain, split) bucket this run",
		}, []string{"domain", "split"}),
		RunDuration: factory.NewGauge(prometheus.GaugeOpts{
			Name: "dataset_run_duration_seconds",
			Help: "Wall clock duration of the current run",
		}),
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "dataset_http_requests_total",
			Help: "Total number of HTTP API requests",
		}, []string{"method", "endpoint", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dataset_http_request_duration_seconds",
			Help:    "HTTP API request duration",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "endpoint"}),
	}
}

// RecordHTTPRequest records one completed HTTP API request.
func (m *Metrics) RecordHTTPRequest(method, endpoint, status string, duration float64) {
	m.HTTPRequests.WithLabelValues(method, endpoint, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration)
}
