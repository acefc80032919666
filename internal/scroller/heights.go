package scroller

import (
	"iter"
	"maps"
	"math"
)

// Heights maps item keys to their last measured height. The zero value is an
// empty cache. A Heights value is never modified after it is built: every
// update returns a new value, so a snapshot handed to someone else stays
// consistent.
type Heights[K comparable] struct {
	m map[K]float64
}

// NewHeights builds a cache from m. Negative and NaN entries are dropped.
func NewHeights[K comparable](m map[K]float64) Heights[K] {
	h := Heights[K]{m: make(map[K]float64, len(m))}
	for k, v := range m {
		if validHeight(v) {
			h.m[k] = v
		}
	}
	return h
}

// Get returns the measured height of key.
func (h Heights[K]) Get(key K) (float64, bool) {
	v, ok := h.m[key]
	return v, ok
}

// Or returns the measured height of key or fallback when it was never
// measured.
func (h Heights[K]) Or(key K, fallback float64) float64 {
	if v, ok := h.m[key]; ok {
		return v
	}
	return fallback
}

// Len returns the number of measured items.
func (h Heights[K]) Len() int {
	return len(h.m)
}

// All yields every measured item.
func (h Heights[K]) All() iter.Seq2[K, float64] {
	return func(yield func(K, float64) bool) {
		for k, v := range h.m {
			if !yield(k, v) {
				return
			}
		}
	}
}

// Map returns a copy of the underlying mapping.
func (h Heights[K]) Map() map[K]float64 {
	return maps.Clone(h.m)
}

// With returns a new cache holding every entry of h overridden by obs.
func (h Heights[K]) With(obs map[K]float64) Heights[K] {
	next := Heights[K]{m: make(map[K]float64, len(h.m)+len(obs))}
	maps.Copy(next.m, h.m)
	for k, v := range obs {
		if validHeight(v) {
			next.m[k] = v
		}
	}
	return next
}

func validHeight(v float64) bool {
	return v >= 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// Measurer reports the realized height of a rendered item. ok is false when
// the item is not attached or cannot be measured yet.
type Measurer[K comparable] interface {
	MeasureHeight(key K) (height float64, ok bool)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc[K comparable] func(key K) (float64, bool)

// MeasureHeight implements Measurer.
func (f MeasurerFunc[K]) MeasureHeight(key K) (float64, bool) {
	return f(key)
}

// Measurement is the outcome of a measurement pass.
type Measurement struct {
	// Changed reports whether any realized height differs from the value
	// the layout was using.
	Changed bool
	// Delta is the net change of the list height.
	Delta float64
	// Measured counts the items that could be measured.
	Measured int
}

// RecordHeights asks m for the realized height of every key and folds the
// observations into heights. Items that cannot be measured keep their
// previous (or assumed) height. When nothing changed heights is returned as
// is.
func RecordHeights[K comparable](keys []K, heights Heights[K], assumed float64, m Measurer[K]) (Heights[K], Measurement) {
	var (
		res Measurement
		obs map[K]float64
	)
	for _, key := range keys {
		h, ok := m.MeasureHeight(key)
		if !ok || !validHeight(h) {
			continue
		}
		res.Measured++
		old := heights.Or(key, assumed)
		if h == old {
			continue
		}
		if obs == nil {
			obs = make(map[K]float64)
		}
		obs[key] = h
		res.Changed = true
		res.Delta += h - old
	}
	if !res.Changed {
		return heights, res
	}
	return heights.With(obs), res
}
