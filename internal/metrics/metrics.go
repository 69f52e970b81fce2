// CineHub - Taste-Based Movie and TV Discovery Backend
// Copyright 2026 CineHub contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/cinehub/cinehub

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	HTTPRequestsInFlight = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Number of HTTP requests currently being served",
		},
	)

	// Recommendation metrics
	RecommendationRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_requests_total",
			Help: "Total number of recommendation pages served",
		},
		[]string{"media_type"},
	)

	RecommendationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "recommendation_duration_seconds",
			Help:    "End-to-end recommendation assembly latency in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"media_type"},
	)

	RecommendationDiscoverErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "recommendation_discover_errors_total",
			Help: "Discovery page fetches that failed and degraded the candidate pool",
		},
		[]string{"media_type"},
	)

	// Upstream metadata API metrics
	TMDBRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tmdb_requests_total",
			Help: "Total number of upstream metadata API calls",
		},
		[]string{"operation", "status"},
	)

	TMDBRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tmdb_request_duration_seconds",
			Help:    "Upstream metadata API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	TMDBRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "tmdb_retries_total",
			Help: "Retries triggered by upstream rate limiting",
		},
	)

	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
		},
		[]string{"name"},
	)

	// Profile metrics
	ProfileRebuilds = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_rebuilds_total",
			Help: "Bulk profile rebuilds by outcome",
		},
		[]string{"status"},
	)

	ProfileRebuildDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "profile_rebuild_duration_seconds",
			Help:    "Bulk profile rebuild duration in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120},
		},
	)

	ProfileInteractions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "profile_interactions_total",
			Help: "Interaction signals folded into taste profiles",
		},
		[]string{"action"},
	)
)

// RecordHTTPRequest records one completed HTTP request.
func RecordHTTPRequest(method, endpoint string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// RecordTMDBRequest records one upstream metadata API call.
func RecordTMDBRequest(operation string, status int, duration time.Duration) {
	TMDBRequests.WithLabelValues(operation, strconv.Itoa(status)).Inc()
	TMDBRequestDuration.WithLabelValues(operation).Observe(duration.Seconds())
}
