package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	KeyChecksTotal  *prometheus.CounterVec
	ProvisionsTotal *prometheus.CounterVec

	UpstreamErrorsTotal *prometheus.CounterVec
	NotificationsTotal  *prometheus.CounterVec
}

var durationBuckets = []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30}

// NewMetrics creates a registry and registers all metrics on it.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "panelgate_http_requests_total",
			Help: "Total HTTP requests by method, path and status code",
		}, []string{"method", "path", "status"}),

		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "panelgate_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: durationBuckets,
		}, []string{"method", "path"}),

		KeyChecksTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "panelgate_key_checks_total",
			Help: "Access key status checks by resulting status",
		}, []string{"status"}),

		ProvisionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "panelgate_provisions_total",
			Help: "Panel provisioning attempts by panel type and outcome",
		}, []string{"panel_type", "outcome"}),

		UpstreamErrorsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "panelgate_upstream_errors_total",
			Help: "Failed upstream panel API calls by panel type and endpoint",
		}, []string{"panel_type", "endpoint"}),

		NotificationsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "panelgate_notifications_total",
			Help: "Panel creation notifications by outcome",
		}, []string{"outcome"}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
