// Package metrics declares the prometheus collectors shared by the cache,
// the pagination controller and the API server.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SessionCacheEvents counts session page cache outcomes.
	// Labels: event (hit, miss, expired, unresolved, saved, dropped, evicted)
	SessionCacheEvents = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discussion_pager_session_cache_events_total",
			Help: "Session page cache outcomes by event",
		},
		[]string{"event"},
	)

	// PageLoads counts page loads by source.
	// Labels: source (network, memory, preloaded, session)
	PageLoads = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discussion_pager_page_loads_total",
			Help: "Discussion list page loads by source",
		},
		[]string{"source"},
	)

	// RunningCacheResets counts in-memory running cache resets.
	RunningCacheResets = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "discussion_pager_running_cache_resets_total",
			Help: "Number of times the running cache was discarded",
		},
	)

	// APIRequests counts discussion API requests.
	// Labels: route, status
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "discussion_api_requests_total",
			Help: "Total number of discussion API requests",
		},
		[]string{"route", "status"},
	)

	// APIDuration tracks discussion API request latency.
	APIDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "discussion_api_request_duration_seconds",
			Help:    "Discussion API request duration distribution",
			Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.2, 0.5, 1.0},
		},
		[]string{"route"},
	)

	// ListTotal tracks the last total result count served by the list endpoint.
	ListTotal = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "discussion_api_list_total_results",
			Help: "Total results of the most recent discussion list query",
		},
	)
)

// RecordSessionCache records a session cache event.
func RecordSessionCache(event string) {
	SessionCacheEvents.WithLabelValues(event).Inc()
}

// RecordPageLoad records where a page load was served from.
func RecordPageLoad(source string) {
	PageLoads.WithLabelValues(source).Inc()
}

// RecordAPIRequest records a served API request.
func RecordAPIRequest(route string, status int, seconds float64) {
	APIRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	APIDuration.WithLabelValues(route).Observe(seconds)
}
