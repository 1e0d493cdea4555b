package progress

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestHubBatchBySize(t *testing.T) {
	t.Parallel()

	sink := &stubSink{}
	hub := NewHub(Config{BufferSize: 8, MaxBatchEvents: 2, MaxBatchWait: time.Minute}, sink)
	defer func() {
		require.NoError(t, hub.Close(context.Background()))
	}()

	hub.Emit(sampleEvent(StageRunStart))
	hub.Emit(sampleEvent(StageRunStart))
	require.Eventually(t, func() bool {
		batches := sink.Batches()
		return len(batches) == 1 && len(batches[0]) == 2
	}, time.Second, 10*time.Millisecond)
}

func TestHubBatchByTimer(t *testing.T) {
	t.Parallel()

	sink := &stubSink{}
	hub := NewHub(Config{BufferSize: 4, MaxBatchEvents: 10, MaxBatchWait: 25 * time.Millisecond}, sink)
	defer func() {
		require.NoError(t, hub.Close(context.Background()))
	}()

	hub.Emit(sampleEvent(StageRunStart))
	require.Eventually(t, func() bool {
		return len(sink.Batches()) == 1
	}, time.Second, 5*time.Millisecond)
}

func TestHubFlushOnClose(t *testing.T) {
	t.Parallel()

	sink := &stubSink{}
	hub := NewHub(Config{BufferSize: 4, MaxBatchEvents: 100, MaxBatchWait: time.Minute}, sink)
	hub.Emit(sampleEvent(StageRunDone))

	require.NoError(t, hub.Close(context.Background()))
	require.NoError(t, hub.Close(context.Background()))
	require.Len(t, sink.Batches(), 1)
	require.Len(t, sink.Batches()[0], 1)
	require.True(t, sink.Closed())

	// Events after Close are ignored.
	hub.Emit(sampleEvent(StageRunStart))
	require.Len(t, sink.Batches(), 1)
}

func TestHubDropsInvalidAndOverflowingEvents(t *testing.T) {
	t.Parallel()

	hub := &Hub{events: make(chan Event, 1), logger: zapNop()}
	hub.Emit(Event{Stage: StageRunStart})
	require.Empty(t, hub.events)

	hub.Emit(sampleEvent(StageRunStart))
	start := time.Now()
	hub.Emit(sampleEvent(StageRunStart))
	require.Less(t, time.Since(start), 50*time.Millisecond)
	require.Equal(t, int64(1), hub.Dropped())
}

func TestEventValidate(t *testing.T) {
	t.Parallel()

	id := uuid.New()
	now := time.Now()
	tests := []struct {
		name    string
		evt     Event
		wantErr bool
	}{
		{name: "run start", evt: Event{RunID: id, TS: now, Stage: StageRunStart}},
		{name: "missing id", evt: Event{TS: now, Stage: StageRunStart}, wantErr: true},
		{name: "missing ts", evt: Event{RunID: id, Stage: StageRunStart}, wantErr: true},
		{name: "recipe without url", evt: Event{RunID: id, TS: now, Stage: StageRecipeSkipped}, wantErr: true},
		{name: "fetch without class", evt: Event{RunID: id, TS: now, Stage: StageFetchDone, Host: "h"}, wantErr: true},
		{name: "unknown stage", evt: Event{RunID: id, TS: now, Stage: "NOPE"}, wantErr: true},
		{name: "negative duration", evt: Event{RunID: id, TS: now, Stage: StageRunDone, Dur: -1}, wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			if tc.wantErr {
				require.Error(t, tc.evt.Validate())
				return
			}
			require.NoError(t, tc.evt.Validate())
		})
	}
}

func TestClassifyStatus(t *testing.T) {
	t.Parallel()

	require.Equal(t, Status2xx, ClassifyStatus(200))
	require.Equal(t, Status3xx, ClassifyStatus(301))
	require.Equal(t, Status4xx, ClassifyStatus(404))
	require.Equal(t, Status5xx, ClassifyStatus(503))
	require.Equal(t, StatusFailed, ClassifyStatus(0))
}

func TestRunContext(t *testing.T) {
	t.Parallel()

	_, ok := RunFromContext(context.Background())
	require.False(t, ok)

	id := uuid.New()
	got, ok := RunFromContext(ContextWithRun(context.Background(), id))
	require.True(t, ok)
	require.Equal(t, id, got)
}

type stubSink struct {
	mu      sync.Mutex
	batches [][]Event
	closed  bool
}

func (s *stubSink) Consume(_ context.Context, batch []Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, append([]Event(nil), batch...))
	return nil
}

func (s *stubSink) Close(context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

func (s *stubSink) Batches() [][]Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]Event(nil), s.batches...)
}

func (s *stubSink) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

func sampleEvent(stage Stage) Event {
	return Event{RunID: uuid.New(), TS: time.Now(), Stage: stage}
}
