package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Capture metrics
	EventsCaptured = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_crash_events_captured_total",
			Help: "Total number of events captured, by outcome",
		},
		[]string{"status"},
	)

	EventBytesTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "telhawk_crash_event_bytes_total",
			Help: "Total bytes of serialized event data produced",
		},
	)

	// Processing metrics
	ProcessingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "telhawk_crash_processing_duration_seconds",
			Help:    "Duration of event enrichment in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	// Transport metrics
	TransportErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "telhawk_crash_transport_errors_total",
			Help: "Total number of transport send failures",
		},
		[]string{"kind"},
	)
)
