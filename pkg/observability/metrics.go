// Package observability exposes Prometheus metrics for the API and
// the query pipeline.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the service's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests *prometheus.CounterVec
	httpDuration *prometheus.HistogramVec

	queryTotal    *prometheus.CounterVec
	commandsTotal *prometheus.CounterVec
}

// NewMetrics creates and registers the collectors on a private
// registry, so tests can hold several instances.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		httpRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compass_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		}, []string{"method", "route", "status"}),
		httpDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "compass_http_request_duration_seconds",
			Help:    "HTTP request latency.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		queryTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compass_queries_total",
			Help: "Queries dispatched through the query bus.",
		}, []string{"query", "success"}),
		commandsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "compass_commands_total",
			Help: "Commands dispatched through the command bus.",
		}, []string{"command", "success"}),
	}
}

// ObserveQuery records one query dispatch.
func (m *Metrics) ObserveQuery(queryType string, success bool) {
	m.queryTotal.WithLabelValues(queryType, strconv.FormatBool(success)).Inc()
}

// ObserveCommand records one command dispatch.
func (m *Metrics) ObserveCommand(commandType string, success bool) {
	m.commandsTotal.WithLabelValues(commandType, strconv.FormatBool(success)).Inc()
}

// ObserveHTTPRequest records one served request.
func (m *Metrics) ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler returns the scrape endpoint for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
