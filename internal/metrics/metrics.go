// Package metrics defines the server's Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "timely"

// Metrics holds the registered collectors. A nil *Metrics records nothing.
type Metrics struct {
	gatherer prometheus.Gatherer

	created     *prometheus.CounterVec
	createFail  *prometheus.CounterVec
	retrievals  *prometheus.CounterVec
	reqDuration *prometheus.HistogramVec
}

// New creates the collectors and registers them with reg, which also serves
// /metrics. Pass prometheus.NewRegistry() in tests.
func New(reg *prometheus.Registry) *Metrics {
	m := &Metrics{
		gatherer: reg,
		created: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countdowns_created_total",
			Help:      "Countdowns created, by type",
		}, []string{"type"}),
		createFail: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countdown_create_failures_total",
			Help:      "Rejected or failed countdown creations, by error class",
		}, []string{"class"}),
		retrievals: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "countdown_retrievals_total",
			Help:      "Countdown lookups, by outcome",
		}, []string{"outcome"}),
		reqDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
	}
	reg.MustRegister(m.created, m.createFail, m.retrievals, m.reqDuration)
	return m
}

// CountdownCreated counts a successful creation.
func (m *Metrics) CountdownCreated(countdownType string) {
	if m == nil {
		return
	}
	m.created.WithLabelValues(countdownType).Inc()
}

// CreateFailed counts a failed creation by error class.
func (m *Metrics) CreateFailed(class string) {
	if m == nil {
		return
	}
	m.createFail.WithLabelValues(class).Inc()
}

// Retrieved counts a lookup; outcome is "found" or an error class.
func (m *Metrics) Retrieved(outcome string) {
	if m == nil {
		return
	}
	m.retrievals.WithLabelValues(outcome).Inc()
}

// ObserveRequest records one handled HTTP request.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.reqDuration.WithLabelValues(method, route, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
