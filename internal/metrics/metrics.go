// Package metrics registers the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	BackendRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "watchlist_backend_request_duration_seconds",
			Help:    "Duration of calls to the movie backend in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation", "outcome"}, // outcome: "success", "failure", "rejected"
	)

	BreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "watchlist_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	RatingsParseFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchlist_ratings_parse_failures_total",
			Help: "Total number of ratings strings that could not be decoded",
		},
	)

	StaleFetchesDiscarded = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "watchlist_stale_fetches_discarded_total",
			Help: "Collection fetches dropped because a newer fetch was already applied",
		},
	)
)
