package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Ingestion Metrics
var (
	// IngestAcceptedTotal tracks events accepted and handed to the broadcaster
	IngestAcceptedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "ingest_events_accepted_total",
			Help: "Total log events accepted by the ingest endpoint",
		},
	)

	// IngestRejectedTotal tracks malformed ingest bodies by reason
	IngestRejectedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ingest_events_rejected_total",
			Help: "Total log events rejected by the ingest endpoint",
		},
		[]string{"reason"},
	)
)

// Broadcaster Metrics
var (
	// BroadcasterSubscribers tracks the current size of the live subscriber set
	BroadcasterSubscribers = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "broadcaster_subscribers",
			Help: "Number of currently registered stream subscribers",
		},
	)

	// BroadcasterEventsPublishedTotal tracks events fanned out to subscribers
	BroadcasterEventsPublishedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "broadcaster_events_published_total",
			Help: "Total events published through the broadcaster",
		},
	)
)

// Stream Session Metrics
var (
	// StreamSessionsActive tracks currently open event-stream connections
	StreamSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "stream_sessions_active",
			Help: "Number of currently open event-stream connections",
		},
	)

	// StreamSessionDuration tracks how long stream connections stay open
	StreamSessionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "stream_session_duration_seconds",
			Help:    "Event-stream connection duration in seconds",
			Buckets: []float64{1, 5, 15, 60, 300, 900, 3600},
		},
	)

	// StreamEventsSentTotal tracks event frames written to streams
	StreamEventsSentTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_events_sent_total",
			Help: "Total event frames written to stream connections",
		},
	)

	// StreamHeartbeatsTotal tracks heartbeat frames written on idle timeouts
	StreamHeartbeatsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "stream_heartbeats_total",
			Help: "Total heartbeat frames written to stream connections",
		},
	)
)
