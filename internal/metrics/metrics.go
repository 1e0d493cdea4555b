// Package metrics exposes the agent's own Prometheus collectors and the
// HTTP middleware for the ops surface. Run and fetch metrics are fed from
// progress events; see internal/progress/sinks.
package metrics

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal          *prometheus.CounterVec
	httpRequestDurationSeconds *prometheus.HistogramVec
	schedulerNextRunTimestamp  prometheus.Gauge
	schedulerFiringsTotal      *prometheus.CounterVec

	once sync.Once
)

// Init registers the collectors on the default registry. It is safe to call
// more than once.
func Init() {
	once.Do(func() {
		httpRequestsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menu_agent_http_requests_total",
				Help: "Ops HTTP requests, by method and status code.",
			},
			[]string{"method", "code"},
		)

		httpRequestDurationSeconds = promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "menu_agent_http_request_duration_seconds",
				Help:    "Ops HTTP latency, by method and route.",
				Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
			},
			[]string{"method", "route"},
		)

		schedulerNextRunTimestamp = promauto.NewGauge(
			prometheus.GaugeOpts{
				Name: "menu_agent_scheduler_next_run_timestamp_seconds",
				Help: "Unix time of the pending weekly trigger.",
			},
		)

		schedulerFiringsTotal = promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "menu_agent_scheduler_firings_total",
				Help: "Job executions, by trigger.",
			},
			[]string{"trigger"},
		)
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveHTTPRequest records one ops request.
func ObserveHTTPRequest(method, route string, code int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, strconv.Itoa(code)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(duration.Seconds())
}

// SetNextRun publishes the pending trigger time.
func SetNextRun(next time.Time) {
	if next.IsZero() {
		return
	}
	schedulerNextRunTimestamp.Set(float64(next.Unix()))
}

// ObserveFiring counts a job execution.
func ObserveFiring(trigger string) {
	schedulerFiringsTotal.WithLabelValues(trigger).Inc()
}
