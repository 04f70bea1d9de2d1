// Package metrics exposes Prometheus instruments for the exhibition site.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// SiteVisits counts sessions whose first request was recorded in the daily aggregate.
	SiteVisits = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exhibition_site_visits_total",
			Help: "Total number of recorded site visits (one per session)",
		},
	)

	// ArtworkViews counts deduplicated artwork detail views.
	ArtworkViews = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exhibition_artwork_views_total",
			Help: "Total number of recorded artwork views (one per artwork per session)",
		},
	)

	// CounterErrors counts failed counter writes; the page is still served.
	CounterErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exhibition_counter_errors_total",
			Help: "Total number of failed visit/view counter writes",
		},
		[]string{"kind"}, // "visit", "view"
	)

	CommentsPosted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "exhibition_comments_posted_total",
			Help: "Total number of visitor comments stored",
		},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "exhibition_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)
