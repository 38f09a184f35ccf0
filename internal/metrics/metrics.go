// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	LoaderFetches = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_loader_fetch_total",
			Help: "Resolved section fetches by resource and outcome",
		},
		[]string{"resource", "outcome"},
	)

	LoaderFetchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_loader_fetch_duration_seconds",
			Help:    "Duration of section fetches in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"resource"},
	)

	LoaderFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_loader_fallback_total",
			Help: "Sections rendered from seed data, by resource and trigger (error or empty)",
		},
		[]string{"resource", "reason"},
	)

	ContactSubmissions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_contact_submissions_total",
			Help: "Contact form submissions by outcome",
		},
		[]string{"outcome"},
	)

	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_cache_lookups_total",
			Help: "Content cache lookups by resource and result",
		},
		[]string{"resource", "result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "portfolio_http_requests_total",
			Help: "HTTP requests by method, route pattern and status code",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "portfolio_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

// ObserveFetch records one resolved loader fetch. outcome is "success" or "error".
func ObserveFetch(resource, outcome string, elapsed time.Duration) {
	LoaderFetches.WithLabelValues(resource, outcome).Inc()
	LoaderFetchDuration.WithLabelValues(resource).Observe(elapsed.Seconds())
}

// ObserveFallback records a section that rendered seed data. reason is "error" or "empty".
func ObserveFallback(resource, reason string) {
	LoaderFallbacks.WithLabelValues(resource, reason).Inc()
}

// ObserveRequest records one served HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
