// Package metrics registers the Prometheus collectors the service
// exposes on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every collector the application records.
type Metrics struct {
	// HTTP request totals by method, path and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency by method and path.
	HTTPRequestDuration *prometheus.HistogramVec

	// Allocation attempts by outcome: success, conflict, full, error.
	AllocationsTotal *prometheus.CounterVec

	// Number of currently occupied seats in the coach.
	OccupiedSeats prometheus.Gauge
}

// New creates a Metrics instance registered on the default registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers the collectors on the given registry.
// Tests pass a fresh registry to avoid duplicate registration.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		HTTPRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "path", "status_code"},
		),
		HTTPRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request latency in seconds",
				Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
			},
			[]string{"method", "path"},
		),
		AllocationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "seat_allocations_total",
				Help: "Total number of seat allocation attempts",
			},
			[]string{"status"},
		),
		OccupiedSeats: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "occupied_seats",
				Help: "Number of seats currently assigned to a user",
			},
		),
	}

	reg.MustRegister(
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.AllocationsTotal,
		m.OccupiedSeats,
	)
	return m
}
