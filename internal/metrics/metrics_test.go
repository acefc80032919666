package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMetrics(t *testing.T) {
	t.Parallel()

	m := NewMetrics()

	m.ScrollEvents.Add(6)
	m.FrameUpdates.Add(2)
	m.RecordMeasure(2*time.Millisecond, 10, true)
	m.RecordMeasure(4*time.Millisecond, 10, false)
	m.RecordCommit(12)
	m.RecordCommit(9)
	m.RecordStoreLookup(true)
	m.RecordStoreLookup(false)
	m.RecordStoreLookup(false)
	m.IncrementCustomMetric("test_metric")
	m.IncrementCustomMetric("test_metric")

	snapshot := m.GetSnapshot()

	require.Equal(t, int64(6), snapshot["scroll_events"])
	require.Equal(t, int64(2), snapshot["measure_passes"])
	require.Equal(t, int64(20), snapshot["measured_items"])
	require.Equal(t, int64(1), snapshot["height_changes"])
	require.Equal(t, int64(2), snapshot["commits"])
	require.Equal(t, int64(9), snapshot["materialized"])
	require.Equal(t, int64(1), snapshot["store_hits"])
	require.Equal(t, int64(2), snapshot["store_misses"])
	require.Equal(t, int64(2), snapshot["test_metric"])
	require.InDelta(t, 3.0, snapshot["avg_measure_ms"], 1e-9)
	require.InDelta(t, 3.0, snapshot["scrolls_per_update"], 1e-9)

	m.Reset()
	snapshot = m.GetSnapshot()
	require.Equal(t, int64(0), snapshot["commits"])
	require.NotContains(t, snapshot, "test_metric")
	require.NotContains(t, snapshot, "avg_measure_ms")
}
