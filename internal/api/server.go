package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
	"github.com/JakeFAU/weekly-menu-agent/internal/metrics"
	"github.com/JakeFAU/weekly-menu-agent/internal/scheduler"
)

// ScheduleView is the read side of the scheduler.
type ScheduleView interface {
	Next() time.Time
	State() scheduler.State
	Spec() string
}

// Server wires HTTP handlers to the run store and scheduler.
type Server struct {
	router   chi.Router
	runs     menu.RunStore
	schedule ScheduleView
	logger   *zap.Logger
}

const defaultRunLimit = 20

// NewServer constructs a Server with middleware and routes.
func NewServer(runs menu.RunStore, schedule ScheduleView, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		runs:     runs,
		schedule: schedule,
		logger:   logger,
	}
	metrics.Init()

	r := chi.NewRouter()
	r.Use(requestIDMiddleware)
	r.Use(loggingMiddleware(logger))
	r.Use(recoverMiddleware(logger))
	r.Use(metrics.Middleware)

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/v1", func(r chi.Router) {
		r.Get("/runs", s.listRuns)
		r.Get("/runs/{run_id}", s.getRun)
		r.Get("/schedule", s.getSchedule)
	})

	s.router = r
	return s
}

// Handler returns the router for use with http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) healthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// readyz reports ready once the scheduler has computed its first trigger.
func (s *Server) readyz(w http.ResponseWriter, _ *http.Request) {
	if s.schedule == nil || s.schedule.Next().IsZero() {
		s.writeError(w, http.StatusServiceUnavailable, "scheduler not started")
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func (s *Server) listRuns(w http.ResponseWriter, r *http.Request) {
	limit := defaultRunLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}
	runs, err := s.runs.ListRuns(r.Context(), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (s *Server) getRun(w http.ResponseWriter, r *http.Request) {
	runID := chi.URLParam(r, "run_id")
	run, err := s.runs.GetRun(r.Context(), runID)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, menu.ErrRunNotFound) {
			status = http.StatusNotFound
		}
		s.writeError(w, status, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, run)
}

type scheduleResponse struct {
	Spec    string    `json:"spec"`
	State   string    `json:"state"`
	NextRun time.Time `json:"next_run"`
}

func (s *Server) getSchedule(w http.ResponseWriter, _ *http.Request) {
	if s.schedule == nil {
		s.writeError(w, http.StatusNotFound, "no schedule configured")
		return
	}
	s.writeJSON(w, http.StatusOK, scheduleResponse{
		Spec:    s.schedule.Spec(),
		State:   string(s.schedule.State()),
		NextRun: s.schedule.Next(),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("write JSON failed", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
