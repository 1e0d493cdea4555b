// Package memory keeps the recent run history in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
)

// DefaultCapacity is how many runs are kept.
const DefaultCapacity = 20

// RunStore is a bounded, mutex-guarded run history. Once full, creating a
// run evicts the oldest one.
type RunStore struct {
	mu       sync.RWMutex
	capacity int
	order    []string
	runs     map[string]menu.Run
}

// NewRunStore builds a RunStore holding at most capacity runs.
func NewRunStore(capacity int) *RunStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &RunStore{
		capacity: capacity,
		runs:     make(map[string]menu.Run, capacity),
	}
}

// CreateRun records a new run.
func (s *RunStore) CreateRun(_ context.Context, run menu.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.runs[run.ID]; exists {
		return fmt.Errorf("run %s already exists", run.ID)
	}
	if len(s.order) == s.capacity {
		delete(s.runs, s.order[0])
		s.order = s.order[1:]
	}
	s.order = append(s.order, run.ID)
	s.runs[run.ID] = run
	return nil
}

// UpdateRun replaces a stored run. Runs already evicted are reported as
// menu.ErrRunNotFound.
func (s *RunStore) UpdateRun(_ context.Context, run menu.Run) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.runs[run.ID]; !ok {
		return fmt.Errorf("update run %s: %w", run.ID, menu.ErrRunNotFound)
	}
	s.runs[run.ID] = run
	return nil
}

// GetRun returns one run.
func (s *RunStore) GetRun(_ context.Context, id string) (menu.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	run, ok := s.runs[id]
	if !ok {
		return menu.Run{}, fmt.Errorf("get run %s: %w", id, menu.ErrRunNotFound)
	}
	return run, nil
}

// ListRuns returns up to limit runs, newest first. A non-positive limit
// returns everything kept.
func (s *RunStore) ListRuns(_ context.Context, limit int) ([]menu.Run, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.order) {
		limit = len(s.order)
	}
	out := make([]menu.Run, 0, limit)
	for i := len(s.order) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.runs[s.order[i]])
	}
	return out, nil
}
