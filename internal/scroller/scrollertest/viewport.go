package scrollertest

import (
	"maps"
	"slices"

	"github.com/charmbracelet/turbo/internal/scroller"
)

var _ scroller.Viewport = (*Viewport)(nil)

// Viewport is a scroll container whose offset is set by the test.
type Viewport struct {
	rect      scroller.ViewportRect
	next      int
	listeners map[int]func()
}

// NewViewport returns a viewport of the given height scrolled to the top.
func NewViewport(height float64) *Viewport {
	return &Viewport{
		rect:      scroller.ViewportRect{Height: height},
		listeners: make(map[int]func()),
	}
}

// Rect implements scroller.Viewport.
func (v *Viewport) Rect() scroller.ViewportRect {
	return v.rect
}

// OnScroll implements scroller.Viewport.
func (v *Viewport) OnScroll(fn func()) func() {
	id := v.next
	v.next++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// ScrollTo moves the viewport and notifies the listeners.
func (v *Viewport) ScrollTo(top float64) {
	v.rect.Top = top
	for _, id := range slices.Sorted(maps.Keys(v.listeners)) {
		v.listeners[id]()
	}
}

// Resize changes the viewport height without notifying anyone.
func (v *Viewport) Resize(height float64) {
	v.rect.Height = height
}

// Listeners returns the number of scroll subscriptions.
func (v *Viewport) Listeners() int {
	return len(v.listeners)
}

// Measurer reports heights set by the test. Keys without a height are not
// measurable.
type Measurer[K comparable] struct {
	heights map[K]float64
	calls   int
}

// NewMeasurer returns a measurer that knows no heights.
func NewMeasurer[K comparable]() *Measurer[K] {
	return &Measurer[K]{heights: make(map[K]float64)}
}

// MeasureHeight implements scroller.Measurer.
func (m *Measurer[K]) MeasureHeight(key K) (float64, bool) {
	m.calls++
	h, ok := m.heights[key]
	return h, ok
}

// Set makes key measurable at height h.
func (m *Measurer[K]) Set(key K, h float64) {
	m.heights[key] = h
}

// SetAll makes every key in keys measurable at height h.
func (m *Measurer[K]) SetAll(keys []K, h float64) {
	for _, k := range keys {
		m.heights[k] = h
	}
}

// Forget makes key unmeasurable again.
func (m *Measurer[K]) Forget(key K) {
	delete(m.heights, key)
}

// Calls returns the number of MeasureHeight calls.
func (m *Measurer[K]) Calls() int {
	return m.calls
}

// Keys returns a list of the integers [0, n).
func Keys(n int) []int {
	keys := make([]int, n)
	for i := range keys {
		keys[i] = i
	}
	return keys
}
