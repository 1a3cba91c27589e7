package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchQueryDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "listings",
			Name:      "search_query_duration_seconds",
			Help:      "Storage query duration in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"resource", "query"}, // query: "find" / "count"
	)

	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listings",
			Name:      "search_requests_total",
			Help:      "Total listing searches by execution mode",
		},
		[]string{"resource", "mode"},
	)

	SearchErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "listings",
			Name:      "search_errors_total",
			Help:      "Total failed listing searches",
		},
		[]string{"resource", "kind"},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchQueryDuration)
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchErrorsTotal)
	searchMetricsRegistered = true
}
