package scroller

// Rect is the vertical extent of a single item in list-local coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Height float64 `json:"height"`
	Bottom float64 `json:"bottom"`
}

// Layout is the prefix-sum geometry of a list. It is a value: computing a new
// layout never changes an old one.
type Layout[K comparable] struct {
	keys  []K
	rects []Rect
	index map[K]int
}

// ComputeLayout stacks every item of list on top of the previous one, using
// the cached height when there is one and assumed otherwise.
func ComputeLayout[K comparable](list []K, heights Heights[K], assumed float64) Layout[K] {
	l := Layout[K]{
		keys:  list,
		rects: make([]Rect, len(list)),
		index: make(map[K]int, len(list)),
	}
	var top float64
	for i, key := range list {
		h := heights.Or(key, assumed)
		l.rects[i] = Rect{
			Top:    top,
			Height: h,
			Bottom: top + h,
		}
		l.index[key] = i
		top += h
	}
	return l
}

// Len returns the number of items in the layout.
func (l Layout[K]) Len() int {
	return len(l.rects)
}

// At returns the rectangle of the i-th item.
func (l Layout[K]) At(i int) Rect {
	return l.rects[i]
}

// Key returns the key of the i-th item.
func (l Layout[K]) Key(i int) K {
	return l.keys[i]
}

// Rect returns the rectangle of the item with the given key.
func (l Layout[K]) Rect(key K) (Rect, bool) {
	i, ok := l.index[key]
	if !ok {
		return Rect{}, false
	}
	return l.rects[i], true
}

// Height is the total extent of the list.
func (l Layout[K]) Height() float64 {
	if len(l.rects) == 0 {
		return 0
	}
	return l.rects[len(l.rects)-1].Bottom
}

// Span returns the extent covered by the items in s.
func (l Layout[K]) Span(s Slice) float64 {
	if s.Empty() || s.End > len(l.rects) {
		return 0
	}
	return l.rects[s.End-1].Bottom - l.rects[s.Start].Top
}

// Map returns a fresh key to rectangle mapping. Callers may keep or modify
// it.
func (l Layout[K]) Map() map[K]Rect {
	m := make(map[K]Rect, len(l.rects))
	for i, key := range l.keys {
		m[key] = l.rects[i]
	}
	return m
}
