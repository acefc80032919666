package scroller

import (
	"fmt"

	"github.com/charmbracelet/x/exp/ordered"
)

// DefaultOverscanRatio extends the materialized band by half a viewport
// above and below the visible area.
const DefaultOverscanRatio = 0.5

// Slice is a half-open range of list indices.
type Slice struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

func (s Slice) String() string {
	return fmt.Sprintf("[%d, %d)", s.Start, s.End)
}

// Len returns the number of items in the slice.
func (s Slice) Len() int {
	return max(0, s.End-s.Start)
}

// Empty reports whether the slice holds no items.
func (s Slice) Empty() bool {
	return s.End <= s.Start
}

// Contains reports whether o lies entirely within s.
func (s Slice) Contains(o Slice) bool {
	return s.Start <= o.Start && o.End <= s.End
}

// Overlaps reports whether s and o share at least one index.
func (s Slice) Overlaps(o Slice) bool {
	return o.Start < s.End && o.End > s.Start
}

// Clamp limits s to a list of length n.
func (s Slice) Clamp(n int) Slice {
	start := ordered.Clamp(s.Start, 0, n)
	end := ordered.Clamp(s.End, start, n)
	return Slice{Start: start, End: end}
}

// ViewportRect is the visible area in list-local coordinates.
type ViewportRect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
}

// Bottom returns the lower edge of the viewport.
func (v ViewportRect) Bottom() float64 {
	return v.Top + v.Height
}

// DesiredSlice returns the items intersecting the viewport grown by ratio
// viewport heights on each side. ok is false for an empty list.
func DesiredSlice[K comparable](layout Layout[K], viewport ViewportRect, ratio float64) (s Slice, ok bool) {
	n := layout.Len()
	if n == 0 {
		return Slice{}, false
	}

	margin := viewport.Height * ratio
	bandTop := viewport.Top - margin
	bandBottom := viewport.Bottom() + margin

	s.Start = n - 1
	for i := range n {
		if layout.At(i).Bottom > bandTop {
			s.Start = i
			break
		}
	}

	s.End = n
	for i := s.Start; i < n; i++ {
		if layout.At(i).Top >= bandBottom {
			s.End = i
			break
		}
	}
	return s, true
}

// InitialSlice seeds the first paint before any scroll position is known. It
// starts at start and grows forward until one viewport height has been
// covered past the first item's bottom edge.
func InitialSlice[K comparable](layout Layout[K], start int, viewportHeight float64) Slice {
	n := layout.Len()
	if n == 0 {
		return Slice{}
	}
	start = ordered.Clamp(start, 0, n-1)
	startBottom := layout.At(start).Bottom

	end := n
	for i := start; i < n; i++ {
		if layout.At(i).Top-startBottom >= viewportHeight {
			end = i
			break
		}
	}
	return Slice{Start: start, End: end}
}
