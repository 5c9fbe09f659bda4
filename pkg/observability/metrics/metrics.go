package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RoutingDecisionsTotal counts completed routing decisions by intent and spec.
	RoutingDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autorouter_routing_decisions_total",
			Help: "Total number of completed routing decisions, labeled by resolved intent and spec.",
		},
		[]string{"intent", "spec"},
	)

	// RoutingSkippedTotal counts requests where routing was skipped or aborted.
	RoutingSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autorouter_routing_skipped_total",
			Help: "Total number of requests where no routing decision was made, labeled by reason.",
		},
		[]string{"reason"},
	)

	// GaugeSwitchesTotal counts intent switches taken by the gauge.
	GaugeSwitchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "autorouter_gauge_switches_total",
			Help: "Total number of intent switches taken by the gauge, labeled by new intent.",
		},
		[]string{"intent"},
	)

	// ConfigFallbacksTotal counts pattern-config loads that fell back to the bundled default.
	ConfigFallbacksTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "autorouter_config_fallbacks_total",
			Help: "Total number of pattern-config loads that fell back to the bundled default.",
		},
	)

	// CandidateBuildDuration observes candidate-builder latency in seconds.
	CandidateBuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autorouter_candidate_build_duration_seconds",
			Help:    "Time spent combining signals into a candidate intent.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14),
		},
	)

	// RoutingDuration observes end-to-end routing latency in seconds.
	RoutingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "autorouter_routing_duration_seconds",
			Help:    "End-to-end time spent on one routing decision.",
			Buckets: prometheus.ExponentialBuckets(0.00001, 2, 14),
		},
	)
)

// RecordRoutingDecision records one completed routing decision.
func RecordRoutingDecision(intent, spec string, switched bool) {
	RoutingDecisionsTotal.WithLabelValues(intent, spec).Inc()
	if switched {
		GaugeSwitchesTotal.WithLabelValues(intent).Inc()
	}
}

// RecordRoutingSkipped records a request that produced no routing decision.
func RecordRoutingSkipped(reason string) {
	RoutingSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordConfigFallback records a config load that fell back to the bundled default.
func RecordConfigFallback() {
	ConfigFallbacksTotal.Inc()
}

// RecordCandidateBuild records candidate-builder latency.
func RecordCandidateBuild(seconds float64) {
	CandidateBuildDuration.Observe(seconds)
}

// RecordRoutingLatency records end-to-end routing latency.
func RecordRoutingLatency(seconds float64) {
	RoutingDuration.Observe(seconds)
}
