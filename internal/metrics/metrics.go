// Package metrics holds the Prometheus instruments used across corpsite.
// All collectors are registered with the global registry, so importing this
// package is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "HTTP requests by method, route pattern, and status code.",
		}, []string{"method", "route", "status"})

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by method and route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"})

	HierarchyBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "page_hierarchy_builds_total",
			Help: "Page hierarchies built for the navigation endpoint.",
		})

	// HierarchyPromotionsTotal counts pages lifted to root; reason is
	// "orphan" or "cycle".
	HierarchyPromotionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "page_hierarchy_promotions_total",
			Help: "Pages emitted at root because their parent link was unusable.",
		}, []string{"reason"})

	ContactSubmissionsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "contact_submissions_total",
			Help: "Contact form submissions stored.",
		})

	// LoginAttemptsTotal result is "ok", "invalid", or "error".
	LoginAttemptsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Admin login attempts by outcome.",
		}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HierarchyBuildsTotal,
		HierarchyPromotionsTotal,
		ContactSubmissionsTotal,
		LoginAttemptsTotal,
	)
}
