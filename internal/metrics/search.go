package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Search outcome labels.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeError = "error"
	OutcomeEmpty = "empty"
)

// Query-log write status labels.
const (
	WriteOK      = "ok"
	WriteError   = "error"
	WriteDropped = "dropped"
)

// Search Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gauss",
			Name:      "search_requests_total",
			Help:      "Total number of searches by outcome",
		},
		[]string{"outcome"}, // hit / miss / error / empty
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "gauss",
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, excluding the query-log write",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
	)

	SuggestionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gauss",
			Name:      "suggestions_total",
			Help:      "Spelling suggestions computed for zero-result queries",
		},
		[]string{"result"}, // "offered" / "none"
	)

	QueryLogWritesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "gauss",
			Name:      "querylog_writes_total",
			Help:      "Query-log writes by status",
		},
		[]string{"status"}, // ok / error / dropped
	)
)

var registerSearchOnce sync.Once

// RegisterSearchMetrics registers Prometheus search metrics. Safe to call more than once.
func RegisterSearchMetrics() {
	registerSearchOnce.Do(func() {
		prometheus.MustRegister(SearchRequestsTotal)
		prometheus.MustRegister(SearchDuration)
		prometheus.MustRegister(SuggestionsTotal)
		prometheus.MustRegister(QueryLogWritesTotal)
	})
}
