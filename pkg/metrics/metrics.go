// Package metrics holds the Prometheus collectors of the tasting API.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "blindtasting"

// Metrics groups every collector. A nil *Metrics is valid and records
// nothing, so callers never have to check whether metrics are enabled.
type Metrics struct {
	registry *prometheus.Registry

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	reportsComputed  *prometheus.CounterVec
	reportDuration   prometheus.Histogram
	ratingsDropped   prometheus.Counter
	ratingsSubmitted prometheus.Counter
	joinAttempts     *prometheus.CounterVec
	statusChanges    *prometheus.CounterVec
}

// New registers all collectors on a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		httpRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route and method.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		reportsComputed: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "computed_total",
			Help:      "Reports computed by strategy and audience.",
		}, []string{"strategy", "audience"}),
		reportDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "duration_seconds",
			Help:      "Time spent loading and computing a report.",
			Buckets:   []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		}),
		ratingsDropped: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "report",
			Name:      "ratings_dropped_total",
			Help:      "Ratings skipped during normalization because they were unresolvable or malformed.",
		}),
		ratingsSubmitted: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rating",
			Name:      "submitted_total",
			Help:      "Ratings stored or merged.",
		}),
		joinAttempts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "participant",
			Name:      "join_attempts_total",
			Help:      "Join attempts by outcome.",
		}, []string{"result"}),
		statusChanges: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasting",
			Name:      "status_changes_total",
			Help:      "Tasting status transitions by target status.",
		}, []string{"status"}),
	}
}

// Handler exposes the registry for scraping.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry is exposed for tests.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

func (m *Metrics) ObserveHTTP(route, method string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpRequestDuration.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveReport(strategy, audience string, dropped int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.reportsComputed.WithLabelValues(strategy, audience).Inc()
	m.reportDuration.Observe(elapsed.Seconds())
	if dropped > 0 {
		m.ratingsDropped.Add(float64(dropped))
	}
}

func (m *Metrics) RatingSubmitted() {
	if m == nil {
		return
	}
	m.ratingsSubmitted.Inc()
}

// JoinAttempt records a join outcome such as "ok", "bad_pin" or "full".
func (m *Metrics) JoinAttempt(result string) {
	if m == nil {
		return
	}
	m.joinAttempts.WithLabelValues(result).Inc()
}

func (m *Metrics) StatusChanged(status string) {
	if m == nil {
		return
	}
	m.statusChanges.WithLabelValues(status).Inc()
}
