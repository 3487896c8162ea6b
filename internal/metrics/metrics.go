// Package metrics holds the HTTP-layer Prometheus collectors: request
// counts and latencies by route and status, distinct from internal/monitor's
// per-provider availability gauges.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// HTTP bundles the outer-surface request metrics registered once at
// startup and updated by the access-log middleware.
type HTTP struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewHTTP builds and registers the HTTP collectors with registerer.
func NewHTTP(registerer prometheus.Registerer) *HTTP {
	h := &HTTP{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "rpc_gateway_http_requests_total",
			Help: "Count of inbound HTTP requests by route and status.",
		}, []string{"route", "method", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "rpc_gateway_http_request_duration_seconds",
			Help:    "Inbound HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
	if registerer != nil {
		registerer.MustRegister(h.requests, h.duration)
	}
	return h
}

// Observe records one completed request.
func (h *HTTP) Observe(route, method, status string, elapsed time.Duration) {
	h.requests.WithLabelValues(route, method, status).Inc()
	h.duration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}
