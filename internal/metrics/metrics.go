// Package metrics exposes Prometheus instrumentation for the front desk
// agent. Counters and histograms are registered once via promauto.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ConnectionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "frontdesk_connections_active",
		Help: "Currently connected clients",
	})

	ConnectionsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_connections_total",
		Help: "Total client connections accepted",
	})

	FramesStreamed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "frontdesk_frames_streamed_total",
		Help: "Annotated frames emitted to clients",
	})

	ChatDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontdesk_chat_duration_seconds",
		Help:    "Chat message round-trip latency including generation",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	TranscriptionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "frontdesk_transcription_duration_seconds",
		Help:    "Audio clip transcription latency",
		Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
	})

	Errors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "frontdesk_errors_total",
		Help: "Errors by operation",
	}, []string{"op"})
)
