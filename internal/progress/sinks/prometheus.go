package sinks

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/JakeFAU/weekly-menu-agent/internal/progress"
)

// PrometheusSink turns progress events into menu_agent_* metrics.
type PrometheusSink struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	runsRunning   prometheus.Gauge
	runDuration   *prometheus.HistogramVec
	recipes       *prometheus.CounterVec

	fetchRequests *prometheus.CounterVec
	fetchBytes    *prometheus.CounterVec
	fetchDuration *prometheus.HistogramVec

	mu      sync.Mutex
	running map[uuid.UUID]struct{}
}

// NewPrometheusSink registers the collectors on reg, or on the default
// registerer when reg is nil.
func NewPrometheusSink(reg prometheus.Registerer) (*PrometheusSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PrometheusSink{
		runsStarted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "menu_agent_runs_started_total",
			Help: "Menu runs started.",
		}),
		runsCompleted: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_agent_runs_completed_total",
			Help: "Menu runs finished, by result.",
		}, []string{"result"}),
		runsRunning: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "menu_agent_runs_running",
			Help: "Menu runs currently in progress.",
		}),
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "menu_agent_run_duration_seconds",
			Help:    "Wall time per finished run.",
			Buckets: []float64{1, 2, 5, 10, 30, 60, 120, 300},
		}, []string{"result"}),
		recipes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_agent_recipes_total",
			Help: "Sampled recipes, by outcome.",
		}, []string{"outcome"}),
		fetchRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_agent_fetch_requests_total",
			Help: "Page fetches, by host and status class.",
		}, []string{"host", "status_class"}),
		fetchBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "menu_agent_fetch_bytes_total",
			Help: "Bytes downloaded, by host.",
		}, []string{"host"}),
		fetchDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "menu_agent_fetch_duration_seconds",
			Help:    "Page fetch latency, by host and status class.",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"host", "status_class"}),
		running: make(map[uuid.UUID]struct{}),
	}
	for _, collector := range []prometheus.Collector{
		s.runsStarted,
		s.runsCompleted,
		s.runsRunning,
		s.runDuration,
		s.recipes,
		s.fetchRequests,
		s.fetchBytes,
		s.fetchDuration,
	} {
		if err := reg.Register(collector); err != nil {
			return nil, fmt.Errorf("register progress collector: %w", err)
		}
	}
	return s, nil
}

// Consume implements progress.Sink.
func (s *PrometheusSink) Consume(_ context.Context, batch []progress.Event) error {
	for _, evt := range batch {
		switch evt.Stage {
		case progress.StageRunStart:
			s.runsStarted.Inc()
			if s.track(evt.RunID, true) {
				s.runsRunning.Inc()
			}
		case progress.StageRunDone:
			s.finish(evt, "success")
		case progress.StageRunError:
			s.finish(evt, "error")
		case progress.StageRecipeDone:
			s.recipes.WithLabelValues("parsed").Inc()
		case progress.StageRecipeSkipped:
			s.recipes.WithLabelValues("skipped").Inc()
		case progress.StageFetchDone:
			s.observeFetch(evt)
		}
	}
	return nil
}

func (s *PrometheusSink) finish(evt progress.Event, result string) {
	s.runsCompleted.WithLabelValues(result).Inc()
	if evt.Dur > 0 {
		s.runDuration.WithLabelValues(result).Observe(evt.Dur.Seconds())
	}
	if s.track(evt.RunID, false) {
		s.runsRunning.Dec()
	}
}

func (s *PrometheusSink) observeFetch(evt progress.Event) {
	class := string(evt.StatusClass)
	s.fetchRequests.WithLabelValues(evt.Host, class).Inc()
	if evt.Bytes > 0 {
		s.fetchBytes.WithLabelValues(evt.Host).Add(float64(evt.Bytes))
	}
	if evt.Dur > 0 {
		s.fetchDuration.WithLabelValues(evt.Host, class).Observe(evt.Dur.Seconds())
	}
}

// track adds or removes id from the running set and reports whether the set
// changed.
func (s *PrometheusSink) track(id uuid.UUID, start bool) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.running[id]
	switch {
	case start && !ok:
		s.running[id] = struct{}{}
		return true
	case !start && ok:
		delete(s.running, id)
		return true
	default:
		return false
	}
}

// Close implements progress.Sink.
func (s *PrometheusSink) Close(context.Context) error {
	return nil
}
