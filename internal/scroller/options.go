package scroller

import (
	"time"

	"github.com/charmbracelet/turbo/internal/metrics"
)

type options struct {
	initialIndex       int
	overscanRatio      float64
	cacheKey           string
	scrollWait         time.Duration
	scrollMaxWait      time.Duration
	positioningTimeout time.Duration
	metrics            *metrics.Metrics
}

func defaultOptions() options {
	return options{
		overscanRatio:      DefaultOverscanRatio,
		scrollWait:         DefaultScrollWait,
		scrollMaxWait:      DefaultScrollMaxWait,
		positioningTimeout: DefaultPositioningTimeout,
	}
}

// Option tunes an Engine.
type Option func(*options)

// WithInitialItemIndex sets the item the first paint starts at.
func WithInitialItemIndex(i int) Option {
	return func(o *options) {
		o.initialIndex = i
	}
}

// WithOverscanRatio sets how many viewport heights are materialized beyond
// each edge of the viewport.
func WithOverscanRatio(ratio float64) Option {
	return func(o *options) {
		o.overscanRatio = ratio
	}
}

// WithCacheKey names the height cache in the engine's HeightStore. Without a
// cache key measured heights die with the engine.
func WithCacheKey(key string) Option {
	return func(o *options) {
		o.cacheKey = key
	}
}

// WithScrollDebounce sets the quiet period after which a burst of scroll
// notifications updates the window, and the longest a burst may delay it. A
// maxWait below wait is raised to wait.
func WithScrollDebounce(wait, maxWait time.Duration) Option {
	return func(o *options) {
		o.scrollWait = wait
		o.scrollMaxWait = maxWait
	}
}

// WithPositioningTimeout bounds how long a positioning report may wait for
// the host to become idle.
func WithPositioningTimeout(d time.Duration) Option {
	return func(o *options) {
		o.positioningTimeout = d
	}
}

// WithMetrics records the engine's activity in m. Several engines may share
// one collector.
func WithMetrics(m *metrics.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}
