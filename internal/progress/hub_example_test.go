package progress

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type sinkFunc func(context.Context, []Event) error

func (f sinkFunc) Consume(ctx context.Context, batch []Event) error {
	return f(ctx, batch)
}

func (sinkFunc) Close(context.Context) error {
	return nil
}

// ExampleHub_Emit counts skipped recipes for a run.
func ExampleHub_Emit() {
	skipped := 0
	hub := NewHub(Config{MaxBatchEvents: 1, MaxBatchWait: time.Second}, sinkFunc(func(_ context.Context, batch []Event) error {
		for _, evt := range batch {
			if evt.Stage == StageRecipeSkipped {
				skipped++
			}
		}
		return nil
	}))

	run := uuid.MustParse("00000000-0000-7000-8000-000000000001")
	hub.Emit(Event{RunID: run, TS: time.Unix(0, 0), Stage: StageRunStart})
	hub.Emit(Event{RunID: run, TS: time.Unix(1, 0), Stage: StageRecipeSkipped, URL: "https://example.com/receita/x"})
	if err := hub.Close(context.Background()); err != nil {
		panic(err)
	}

	fmt.Printf("recipes skipped: %d\n", skipped)
	// Output:
	// recipes skipped: 1
}
