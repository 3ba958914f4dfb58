// Package metrics holds the Prometheus collectors of the conversion API
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Rate lookup sources
const (
	SourceCache = "cache"
	SourceLive  = "live"
	SourceStore = "store"
)

// Metrics groups the collectors. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	ConversionsTotal  *prometheus.CounterVec
	RateLookupsTotal  *prometheus.CounterVec
	SwopRequestsTotal *prometheus.CounterVec
	SwopBreakerState  prometheus.Gauge
	SnapshotsTotal    *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"path", "method", "status_code"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"path", "method"},
		),

		ConversionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "conversions_total",
				Help: "Total number of currency conversions by outcome",
			},
			[]string{"outcome"},
		),

		RateLookupsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_lookups_total",
				Help: "Total number of exchange rate lookups by source",
			},
			[]string{"source"},
		),

		SwopRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "swop_requests_total",
				Help: "Total number of Swop API calls by operation and result",
			},
			[]string{"operation", "result"},
		),

		SwopBreakerState: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "swop_circuit_breaker_state",
				Help: "Swop circuit breaker state (0 closed, 1 half-open, 2 open)",
			},
		),

		SnapshotsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "rate_snapshots_total",
				Help: "Total number of scheduled rate snapshots by result",
			},
			[]string{"result"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveHTTP records one served request
func (m *Metrics) ObserveHTTP(path, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(path, method, strconv.Itoa(status)).Inc()
	m.HTTPRequestDuration.WithLabelValues(path, method).Observe(elapsed.Seconds())
}

// Conversion records a conversion outcome
func (m *Metrics) Conversion(outcome string) {
	if m == nil {
		return
	}
	m.ConversionsTotal.WithLabelValues(outcome).Inc()
}

// RateLookup records where a rate pair was served from
func (m *Metrics) RateLookup(source string) {
	if m == nil {
		return
	}
	m.RateLookupsTotal.WithLabelValues(source).Inc()
}

// SwopRequest records one call to the Swop API
func (m *Metrics) SwopRequest(operation string, err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SwopRequestsTotal.WithLabelValues(operation, result).Inc()
}

// BreakerState records the circuit breaker state
func (m *Metrics) BreakerState(state float64) {
	if m == nil {
		return
	}
	m.SwopBreakerState.Set(state)
}

// Snapshot records a scheduled snapshot run
func (m *Metrics) Snapshot(err error) {
	if m == nil {
		return
	}
	result := "success"
	if err != nil {
		result = "error"
	}
	m.SnapshotsTotal.WithLabelValues(result).Inc()
}
