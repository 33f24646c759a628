// Package metrics provides Prometheus metrics for Tyria Tracker.
// Counters, gauges, and histograms for the evaluation loop, completion
// toggles, the daily reset, and the external enrichment calls.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// ─── Scheduler ──────────────────────────────────────────────────────────────

// EvaluationsTotal counts evaluation passes of the occurrence pipeline.
var EvaluationsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tyria",
	Name:      "evaluations_total",
	Help:      "Total occurrence pipeline evaluations.",
})

// EventsActive tracks occurrences currently in their active window.
var EventsActive = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tyria",
	Name:      "events_active",
	Help:      "Occurrences currently active.",
})

// EventsUpcoming tracks visible upcoming occurrences within the horizon.
var EventsUpcoming = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tyria",
	Name:      "events_upcoming",
	Help:      "Visible upcoming occurrences within the display horizon.",
})

// EventsCompleted tracks event types currently marked completed.
var EventsCompleted = promauto.NewGauge(prometheus.GaugeOpts{
	Namespace: "tyria",
	Name:      "events_completed",
	Help:      "Event types marked completed for the current UTC day.",
})

// ─── Completion ─────────────────────────────────────────────────────────────

// TogglesTotal counts completion toggles by kind (occurrence or event_type).
var TogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tyria",
	Name:      "toggles_total",
	Help:      "Total completion toggles.",
}, []string{"kind"})

// TaskTogglesTotal counts daily checklist toggles by category.
var TaskTogglesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
	Namespace: "tyria",
	Name:      "task_toggles_total",
	Help:      "Total daily task toggles.",
}, []string{"category"})

// DailyResetsTotal counts UTC-midnight resets performed.
var DailyResetsTotal = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tyria",
	Name:      "daily_resets_total",
	Help:      "Total daily completion resets.",
})

// ─── Enrichment (prices, sync) ──────────────────────────────────────────────

// PriceFetchLatency tracks commerce API round trips in seconds.
var PriceFetchLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "tyria",
	Name:      "price_fetch_latency_seconds",
	Help:      "Commerce price fetch duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// PriceFetchFailures counts failed commerce API calls.
var PriceFetchFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tyria",
	Name:      "price_fetch_failures_total",
	Help:      "Total failed commerce price fetches.",
})

// SyncLatency tracks remote progress sync round trips in seconds.
var SyncLatency = promauto.NewHistogram(prometheus.HistogramOpts{
	Namespace: "tyria",
	Name:      "sync_latency_seconds",
	Help:      "Remote sync push duration in seconds.",
	Buckets:   prometheus.DefBuckets,
})

// SyncFailures counts failed remote sync pushes.
var SyncFailures = promauto.NewCounter(prometheus.CounterOpts{
	Namespace: "tyria",
	Name:      "sync_failures_total",
	Help:      "Total failed remote sync pushes.",
})
