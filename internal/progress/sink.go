package progress

import (
	"context"

	"github.com/google/uuid"
)

// Sink consumes batches of events. Consume is called from the hub goroutine
// only; Close is called once when the hub shuts down.
type Sink interface {
	Consume(ctx context.Context, batch []Event) error
	Close(ctx context.Context) error
}

// Emitter publishes individual events.
type Emitter interface {
	Emit(evt Event)
}

// NopEmitter discards every event.
type NopEmitter struct{}

// Emit implements Emitter.
func (NopEmitter) Emit(Event) {}

type runKey struct{}

// ContextWithRun tags ctx with the run being executed so that components
// deep in the pipeline can attribute their events.
func ContextWithRun(ctx context.Context, id uuid.UUID) context.Context {
	return context.WithValue(ctx, runKey{}, id)
}

// RunFromContext returns the run id stored by ContextWithRun.
func RunFromContext(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(runKey{}).(uuid.UUID)
	return id, ok && id != uuid.Nil
}
