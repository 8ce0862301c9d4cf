// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustly",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by method, route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "trustly",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "route"},
	)

	// DispatchEmailsTotal counts invitation emails by result (sent, failed).
	DispatchEmailsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustly",
			Subsystem: "dispatch",
			Name:      "emails_total",
			Help:      "Campaign invitation emails by result",
		},
		[]string{"result"},
	)

	SubmissionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustly",
			Subsystem: "submission",
			Name:      "testimonials_total",
			Help:      "Public testimonial submissions by result",
		},
		[]string{"result"},
	)

	MediaUploadsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustly",
			Subsystem: "submission",
			Name:      "media_uploads_total",
			Help:      "Testimonial media uploads by kind and result",
		},
		[]string{"kind", "result"},
	)

	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "trustly",
			Subsystem: "realtime",
			Name:      "notifications_total",
			Help:      "Change events handled by the notifier by type and result",
		},
		[]string{"type", "result"},
	)
)

func Handler() http.Handler {
	return promhttp.Handler()
}
