package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics counts what the windowing engine does. Counters are atomic so a
// UI goroutine can read them while an engine is running elsewhere.
type Metrics struct {
	// Scheduler metrics
	ScrollEvents     atomic.Int64
	FrameUpdates     atomic.Int64
	IdleUpdates      atomic.Int64
	Positionings     atomic.Int64
	DroppedCallbacks atomic.Int64

	// Window metrics
	Commits       atomic.Int64
	MaterializedN atomic.Int64 // items in the last committed slice

	// Measurement metrics
	MeasurePasses  atomic.Int64
	MeasuredItems  atomic.Int64
	HeightChanges  atomic.Int64
	MeasureLatency atomic.Int64 // nanoseconds, summed over passes

	// Store metrics
	StoreHits   atomic.Int64
	StoreMisses atomic.Int64

	// Custom metrics
	customMetrics sync.Map // map[string]*atomic.Int64

	startTime time.Time
}

// NewMetrics creates a new metrics collector
func NewMetrics() *Metrics {
	return &Metrics{
		startTime: time.Now(),
	}
}

// RecordMeasure records one measurement pass.
func (m *Metrics) RecordMeasure(duration time.Duration, measured int, changed bool) {
	m.MeasurePasses.Add(1)
	m.MeasuredItems.Add(int64(measured))
	m.MeasureLatency.Add(duration.Nanoseconds())
	if changed {
		m.HeightChanges.Add(1)
	}
}

// RecordCommit records a change of the materialized window.
func (m *Metrics) RecordCommit(size int) {
	m.Commits.Add(1)
	m.MaterializedN.Store(int64(size))
}

// RecordStoreLookup records whether a height cache was found in the store.
func (m *Metrics) RecordStoreLookup(hit bool) {
	if hit {
		m.StoreHits.Add(1)
		return
	}
	m.StoreMisses.Add(1)
}

// IncrementCustomMetric increments a custom metric
func (m *Metrics) IncrementCustomMetric(name string) {
	if val, ok := m.customMetrics.Load(name); ok {
		if counter, ok := val.(*atomic.Int64); ok {
			counter.Add(1)
		}
		return
	}
	counter := &atomic.Int64{}
	actual, _ := m.customMetrics.LoadOrStore(name, counter)
	actual.(*atomic.Int64).Add(1)
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() map[string]any {
	uptime := time.Since(m.startTime)

	snapshot := map[string]any{
		"uptime_seconds":    uptime.Seconds(),
		"scroll_events":     m.ScrollEvents.Load(),
		"frame_updates":     m.FrameUpdates.Load(),
		"idle_updates":      m.IdleUpdates.Load(),
		"positionings":      m.Positionings.Load(),
		"dropped_callbacks": m.DroppedCallbacks.Load(),
		"commits":           m.Commits.Load(),
		"materialized":      m.MaterializedN.Load(),
		"measure_passes":    m.MeasurePasses.Load(),
		"measured_items":    m.MeasuredItems.Load(),
		"height_changes":    m.HeightChanges.Load(),
		"store_hits":        m.StoreHits.Load(),
		"store_misses":      m.StoreMisses.Load(),
	}

	if passes := m.MeasurePasses.Load(); passes > 0 {
		snapshot["avg_measure_ms"] = float64(m.MeasureLatency.Load()) / float64(passes) / 1e6
	}

	if scrolls := m.ScrollEvents.Load(); scrolls > 0 {
		// How many scroll notifications each frame update absorbed.
		if updates := m.FrameUpdates.Load(); updates > 0 {
			snapshot["scrolls_per_update"] = float64(scrolls) / float64(updates)
		}
	}

	m.customMetrics.Range(func(key, value any) bool {
		if counter, ok := value.(*atomic.Int64); ok {
			snapshot[key.(string)] = counter.Load()
		}
		return true
	})

	return snapshot
}

// Reset resets all metrics
func (m *Metrics) Reset() {
	m.ScrollEvents.Store(0)
	m.FrameUpdates.Store(0)
	m.IdleUpdates.Store(0)
	m.Positionings.Store(0)
	m.DroppedCallbacks.Store(0)
	m.Commits.Store(0)
	m.MaterializedN.Store(0)
	m.MeasurePasses.Store(0)
	m.MeasuredItems.Store(0)
	m.HeightChanges.Store(0)
	m.MeasureLatency.Store(0)
	m.StoreHits.Store(0)
	m.StoreMisses.Store(0)

	m.customMetrics.Range(func(key, value any) bool {
		m.customMetrics.Delete(key)
		return true
	})

	m.startTime = time.Now()
}
