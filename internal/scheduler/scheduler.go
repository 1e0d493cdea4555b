// Package scheduler fires the weekly job from an in-memory trigger.
//
// The scheduler keeps a single next-trigger timestamp, computed forward from
// the moment it starts. It polls the clock on a coarse interval and runs the
// job on its own goroutine, so a job always finishes before the next check.
// Nothing is persisted: triggers missed while the process was down are not
// caught up.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Defaults for the weekly trigger.
const (
	DefaultSpec         = "0 8 * * 0"
	DefaultPollInterval = 60 * time.Second
)

// State reports whether the job is currently running.
type State string

// Scheduler states.
const (
	StateIdle   State = "idle"
	StateFiring State = "firing"
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

// Job is the work fired at each trigger.
type Job func(ctx context.Context)

// Config holds the trigger settings.
type Config struct {
	// Spec is a five-field cron expression.
	Spec         string
	PollInterval time.Duration
	// OnScheduled, if set, is called with every newly computed trigger.
	OnScheduled func(next time.Time)
}

// Scheduler owns the trigger state. The zero value is not usable; call New.
type Scheduler struct {
	schedule cron.Schedule
	spec     string
	poll     time.Duration
	clock    Clock
	job      Job
	notify   func(time.Time)
	logger   *zap.Logger

	mu      sync.RWMutex
	next    time.Time
	state   State
	started bool
}

// ParseSpec parses a standard five-field cron expression.
func ParseSpec(spec string) (cron.Schedule, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("parse schedule %q: %w", spec, err)
	}
	return schedule, nil
}

// New builds a Scheduler. The trigger time is computed by Start.
func New(cfg Config, clock Clock, job Job, logger *zap.Logger) (*Scheduler, error) {
	if cfg.Spec == "" {
		cfg.Spec = DefaultSpec
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if clock == nil {
		return nil, fmt.Errorf("scheduler requires a clock")
	}
	if job == nil {
		return nil, fmt.Errorf("scheduler requires a job")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	notify := cfg.OnScheduled
	if notify == nil {
		notify = func(time.Time) {}
	}
	schedule, err := ParseSpec(cfg.Spec)
	if err != nil {
		return nil, err
	}
	return &Scheduler{
		schedule: schedule,
		spec:     cfg.Spec,
		poll:     cfg.PollInterval,
		clock:    clock,
		job:      job,
		notify:   notify,
		logger:   logger,
		state:    StateIdle,
	}, nil
}

// Start computes the first trigger from the current time. Calling it again
// has no effect.
func (s *Scheduler) Start() time.Time {
	s.mu.Lock()
	if s.started {
		next := s.next
		s.mu.Unlock()
		return next
	}
	s.next = s.schedule.Next(s.clock.Now())
	s.started = true
	next := s.next
	s.mu.Unlock()

	s.logger.Info("scheduler started",
		zap.String("schedule", s.spec),
		zap.Time("next_run", next),
	)
	s.notify(next)
	return next
}

// Tick checks the clock once and runs the job if the trigger is due. It
// reports whether the job ran. After a run the next trigger is computed from
// the completion time, so a long job never fires twice for one slot.
func (s *Scheduler) Tick(ctx context.Context) bool {
	s.Start()
	now := s.clock.Now()

	s.mu.Lock()
	if now.Before(s.next) {
		s.mu.Unlock()
		return false
	}
	due := s.next
	s.state = StateFiring
	s.mu.Unlock()

	s.logger.Info("firing scheduled job", zap.Time("due", due), zap.Time("now", now))
	s.job(ctx)

	s.mu.Lock()
	s.state = StateIdle
	s.next = s.schedule.Next(s.clock.Now())
	next := s.next
	s.mu.Unlock()

	s.logger.Info("next run scheduled", zap.Time("next_run", next))
	s.notify(next)
	return true
}

// Run polls until ctx is canceled.
func (s *Scheduler) Run(ctx context.Context) error {
	s.Start()
	ticker := time.NewTicker(s.poll)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.logger.Info("scheduler stopped")
			return nil
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Next returns the pending trigger time. It is zero before Start.
func (s *Scheduler) Next() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.next
}

// State reports whether the job is running.
func (s *Scheduler) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Spec returns the trigger expression.
func (s *Scheduler) Spec() string {
	return s.spec
}
