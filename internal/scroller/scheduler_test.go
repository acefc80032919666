package scroller_test

import (
	"testing"
	"time"

	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/turbo/internal/scroller/scrollertest"
	"github.com/stretchr/testify/require"
)

func TestCoalescer(t *testing.T) {
	t.Parallel()

	sched := scrollertest.NewScheduler()
	calls := 0
	c := scroller.NewCoalescer(sched.Frame, func() { calls++ })

	require.True(t, c.Trigger())
	require.False(t, c.Trigger())
	require.False(t, c.Trigger())
	require.Equal(t, 1, sched.PendingFrames())

	sched.RunFrame()
	require.Equal(t, 1, calls)

	// Once run, the next trigger schedules again.
	require.True(t, c.Trigger())
	sched.RunFrame()
	require.Equal(t, 2, calls)
}

func TestIdleOrFrame(t *testing.T) {
	t.Parallel()

	t.Run("falls back to frames", func(t *testing.T) {
		t.Parallel()
		sched := scrollertest.NewScheduler()
		ran := false
		scroller.IdleOrFrame(sched, time.Second)(func() { ran = true })
		require.Equal(t, 1, sched.PendingFrames())
		sched.RunFrame()
		require.True(t, ran)
	})

	t.Run("prefers idle time", func(t *testing.T) {
		t.Parallel()
		sched := scrollertest.NewIdleScheduler()
		ran := false
		scroller.IdleOrFrame(sched, 500*time.Millisecond)(func() { ran = true })
		require.Zero(t, sched.PendingFrames())
		require.Equal(t, 1, sched.PendingIdle())

		sched.Advance(499 * time.Millisecond)
		require.False(t, ran)
		sched.Advance(time.Millisecond)
		require.True(t, ran)
		require.Zero(t, sched.PendingIdle())
	})
}

func TestDebouncer(t *testing.T) {
	t.Parallel()

	t.Run("trailing edge", func(t *testing.T) {
		t.Parallel()
		sched := scrollertest.NewScheduler()
		calls := 0
		d := scroller.NewDebouncer(sched, 50*time.Millisecond, 200*time.Millisecond, func() { calls++ })

		d.Call()
		sched.Advance(30 * time.Millisecond)
		d.Call()
		sched.Advance(30 * time.Millisecond)
		d.Call()
		require.True(t, d.Pending())

		// Last call at 60ms, so the quiet period ends at 110ms.
		sched.Advance(49 * time.Millisecond)
		require.Zero(t, calls)
		sched.Advance(time.Millisecond)
		require.Equal(t, 1, calls)
		require.False(t, d.Pending())
		require.Zero(t, sched.PendingTimers())
	})

	t.Run("max wait bounds a continuous burst", func(t *testing.T) {
		t.Parallel()
		sched := scrollertest.NewScheduler()
		calls := 0
		d := scroller.NewDebouncer(sched, 100*time.Millisecond, 100*time.Millisecond, func() { calls++ })

		for range 4 {
			d.Call()
			sched.Advance(30 * time.Millisecond)
		}
		// Calls at 0, 30, 60 and 90ms; the clock is at 120ms.
		require.Equal(t, 1, calls)

		for range 10 {
			d.Call()
			sched.Advance(10 * time.Millisecond)
		}
		// A second burst starting at 120ms fires again at 220ms.
		require.Equal(t, 2, calls)
	})

	t.Run("max wait below wait is raised to wait", func(t *testing.T) {
		t.Parallel()
		sched := scrollertest.NewScheduler()
		calls := 0
		d := scroller.NewDebouncer(sched, 50*time.Millisecond, 0, func() { calls++ })

		// A stream that never pauses for 50ms still fires every 50ms.
		for range 10 {
			d.Call()
			sched.Advance(10 * time.Millisecond)
		}
		require.Equal(t, 2, calls)
	})

	t.Run("cancel drops the pending call", func(t *testing.T) {
		t.Parallel()
		sched := scrollertest.NewScheduler()
		calls := 0
		d := scroller.NewDebouncer(sched, 100*time.Millisecond, 100*time.Millisecond, func() { calls++ })

		d.Call()
		d.Cancel()
		require.False(t, d.Pending())
		sched.Advance(time.Second)
		require.Zero(t, calls)
	})
}
