package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(t time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// 2026-10-14 is a Wednesday.
var wednesday = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func TestParseSpec(t *testing.T) {
	t.Parallel()

	_, err := ParseSpec(DefaultSpec)
	require.NoError(t, err)

	_, err = ParseSpec("every sunday")
	require.ErrorContains(t, err, "every sunday")

	_, err = New(Config{Spec: "* * *"}, &fakeClock{}, func(context.Context) {}, nil)
	require.Error(t, err)
}

func TestStartComputesNextSunday(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: wednesday}
	s, err := New(Config{}, clock, func(context.Context) {}, nil)
	require.NoError(t, err)
	require.True(t, s.Next().IsZero())

	next := s.Start()
	require.Equal(t, time.Date(2026, 10, 18, 8, 0, 0, 0, time.UTC), next)
	require.Equal(t, time.Sunday, next.Weekday())

	clock.Advance(time.Hour)
	require.Equal(t, next, s.Start())
}

func TestTickFiresOnceAtTrigger(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: wednesday}
	fired := 0
	var stateDuringJob State
	var s *Scheduler
	s, err := New(Config{}, clock, func(context.Context) {
		fired++
		stateDuringJob = s.State()
		clock.Advance(2 * time.Minute)
	}, nil)
	require.NoError(t, err)
	trigger := s.Start()

	clock.Set(trigger.Add(-time.Minute))
	require.False(t, s.Tick(context.Background()))
	require.Zero(t, fired)

	clock.Set(trigger)
	require.True(t, s.Tick(context.Background()))
	require.Equal(t, 1, fired)
	require.Equal(t, StateFiring, stateDuringJob)
	require.Equal(t, StateIdle, s.State())
	require.Equal(t, trigger.AddDate(0, 0, 7), s.Next())

	// Still the same Sunday morning: the job must not fire again.
	require.False(t, s.Tick(context.Background()))
	require.Equal(t, 1, fired)
}

func TestNoCatchUpForMissedTriggers(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: wednesday}
	fired := 0
	s, err := New(Config{}, clock, func(context.Context) { fired++ }, nil)
	require.NoError(t, err)
	trigger := s.Start()

	// The process sleeps through three Sundays, then polls once.
	clock.Set(trigger.AddDate(0, 0, 21).Add(time.Hour))
	require.True(t, s.Tick(context.Background()))
	require.False(t, s.Tick(context.Background()))
	require.Equal(t, 1, fired)
	require.Equal(t, trigger.AddDate(0, 0, 28), s.Next())
}

func TestRunStopsOnCancel(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: wednesday}
	s, err := New(Config{Spec: "* * * * *", PollInterval: 5 * time.Millisecond}, clock, func(context.Context) {}, nil)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	clock.Advance(2 * time.Minute)
	require.Eventually(t, func() bool {
		return s.Next().After(wednesday.Add(2 * time.Minute))
	}, time.Second, 5*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestOnScheduledNotified(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{now: wednesday}
	var seen []time.Time
	s, err := New(Config{OnScheduled: func(next time.Time) { seen = append(seen, next) }}, clock, func(context.Context) {}, nil)
	require.NoError(t, err)

	first := s.Start()
	s.Start()
	clock.Set(first)
	require.True(t, s.Tick(context.Background()))

	require.Equal(t, []time.Time{first, first.AddDate(0, 0, 7)}, seen)
}
