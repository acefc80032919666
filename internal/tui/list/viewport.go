package list

import (
	"slices"

	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/x/exp/ordered"
)

// viewport is the visible part of the list, in lines.
type viewport struct {
	top    int
	height int

	listeners map[int]func()
	nextID    int
}

var _ scroller.Viewport = (*viewport)(nil)

func newViewport() *viewport {
	return &viewport{listeners: make(map[int]func())}
}

// Rect implements scroller.Viewport.
func (v *viewport) Rect() scroller.ViewportRect {
	return scroller.ViewportRect{Top: float64(v.top), Height: float64(v.height)}
}

// OnScroll implements scroller.Viewport.
func (v *viewport) OnScroll(fn func()) func() {
	id := v.nextID
	v.nextID++
	v.listeners[id] = fn
	return func() { delete(v.listeners, id) }
}

// scrollTo moves the top to top, clamped to [0, maxTop], and notifies the
// listeners when it moved. It reports whether it moved.
func (v *viewport) scrollTo(top, maxTop int) bool {
	top = ordered.Clamp(top, 0, max(maxTop, 0))
	if top == v.top {
		return false
	}
	v.top = top
	v.notify()
	return true
}

func (v *viewport) resize(height int) {
	if height == v.height {
		return
	}
	v.height = height
	v.notify()
}

func (v *viewport) notify() {
	ids := make([]int, 0, len(v.listeners))
	for id := range v.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	for _, id := range ids {
		if fn, ok := v.listeners[id]; ok {
			fn()
		}
	}
}
