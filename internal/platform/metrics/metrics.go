// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the HTTP collectors.
type Metrics struct {
	// RequestDuration tracks HTTP request duration in seconds by method, route, status.
	RequestDuration *prometheus.HistogramVec

	// RequestTotal counts HTTP requests by method, route, status.
	RequestTotal *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "route", "status"},
		),
		RequestTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
	}
	reg.MustRegister(m.RequestDuration, m.RequestTotal)
	return m
}

// RecordRequest records duration and count for one request.
// route should be the matched route pattern (e.g. /users/:id) to keep label cardinality bounded.
func (m *Metrics) RecordRequest(method, route string, statusCode int, d time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	status := strconv.Itoa(statusCode)
	m.RequestDuration.WithLabelValues(method, route, status).Observe(d.Seconds())
	m.RequestTotal.WithLabelValues(method, route, status).Inc()
}
