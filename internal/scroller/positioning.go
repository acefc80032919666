package scroller

// Positioning is a snapshot of the engine's geometry. Every field is a copy;
// holding on to it never observes later changes.
type Positioning[K comparable] struct {
	Viewport   ViewportRect `json:"viewport"`
	Rects      map[K]Rect   `json:"rects"`
	SliceStart int          `json:"slice_start"`
	SliceEnd   int          `json:"slice_end"`
}

// Slice returns the materialized range of the snapshot.
func (p Positioning[K]) Slice() Slice {
	return Slice{Start: p.SliceStart, End: p.SliceEnd}
}

// Frame is what a host draws: the materialized items between two spacers.
type Frame[K comparable, R any] struct {
	Above float64
	Below float64
	Keys  []K
	Items []R
}
