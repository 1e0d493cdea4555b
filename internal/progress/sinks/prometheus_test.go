package sinks

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/weekly-menu-agent/internal/progress"
)

func TestPrometheusSinkRecordsRun(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	sink, err := NewPrometheusSink(reg)
	require.NoError(t, err)

	runID := uuid.New()
	now := time.Now()
	batch := []progress.Event{
		{RunID: runID, TS: now, Stage: progress.StageRunStart},
		{
			RunID:       runID,
			TS:          now,
			Stage:       progress.StageFetchDone,
			Host:        "www.example.com",
			Bytes:       2048,
			StatusClass: progress.Status2xx,
			Dur:         150 * time.Millisecond,
		},
		{RunID: runID, TS: now, Stage: progress.StageRecipeDone, URL: "u1"},
		{RunID: runID, TS: now, Stage: progress.StageRecipeSkipped, URL: "u2"},
	}
	require.NoError(t, sink.Consume(context.Background(), batch))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.runsRunning))

	require.NoError(t, sink.Consume(context.Background(), []progress.Event{
		{RunID: runID, TS: now, Stage: progress.StageRunDone, Dur: 3 * time.Second},
		{RunID: runID, TS: now, Stage: progress.StageRunDone},
	}))

	require.Equal(t, 1.0, testutil.ToFloat64(sink.runsStarted))
	require.Equal(t, 2.0, testutil.ToFloat64(sink.runsCompleted.WithLabelValues("success")))
	require.Equal(t, 0.0, testutil.ToFloat64(sink.runsRunning))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.recipes.WithLabelValues("parsed")))
	require.Equal(t, 1.0, testutil.ToFloat64(sink.recipes.WithLabelValues("skipped")))
	require.InDelta(t, 1.0, testutil.ToFloat64(sink.fetchRequests.WithLabelValues("www.example.com", "2xx")), 1e-9)
	require.InDelta(t, 2048.0, testutil.ToFloat64(sink.fetchBytes.WithLabelValues("www.example.com")), 1e-9)
	require.Equal(t, 1, testutil.CollectAndCount(sink.fetchDuration, "menu_agent_fetch_duration_seconds"))
	require.Equal(t, 1, testutil.CollectAndCount(sink.runDuration, "menu_agent_run_duration_seconds"))
}

func TestPrometheusSinkDuplicateRegistration(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_, err := NewPrometheusSink(reg)
	require.NoError(t, err)
	_, err = NewPrometheusSink(reg)
	require.Error(t, err)
}
