package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Business metrics
	CommandsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vaani_commands_total",
		Help: "Voice commands processed, by intent kind and outcome",
	}, []string{"kind", "status"})

	ClassifierFallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "vaani_classifier_fallbacks_total",
		Help: "Classifier calls resolved to the fallback record, by cause",
	}, []string{"cause"})

	ClassifierLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vaani_classifier_latency_seconds",
		Help:    "Latency of intent classification calls",
		Buckets: prometheus.DefBuckets,
	})

	ActiveVoiceSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "vaani_active_voice_sessions",
		Help: "Voice sessions currently connected",
	})

	// Infrastructure metrics
	DatabaseLatency = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "vaani_database_latency_seconds",
		Help:    "Latency of database queries",
		Buckets: prometheus.DefBuckets,
	})
)
