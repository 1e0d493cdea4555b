// Package memory records run summaries in process memory.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/JakeFAU/weekly-menu-agent/internal/menu"
)

// Publisher keeps every published summary. It is the default when no
// Pub/Sub topic is configured.
type Publisher struct {
	mu        sync.RWMutex
	summaries []menu.RunSummary
}

// New returns an empty Publisher.
func New() *Publisher {
	return &Publisher{}
}

// PublishRun records summary and returns a sequence-based id.
func (p *Publisher) PublishRun(_ context.Context, summary menu.RunSummary) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.summaries = append(p.summaries, summary)
	return fmt.Sprintf("memory-%d", len(p.summaries)), nil
}

// Summaries returns a copy of what has been published.
func (p *Publisher) Summaries() []menu.RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return append([]menu.RunSummary(nil), p.summaries...)
}
