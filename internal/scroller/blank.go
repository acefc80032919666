package scroller

// BlankSpace is the extent taken by the items that are not materialized.
// Hosts render it as inert spacers so the scroll extent matches the whole
// list.
type BlankSpace struct {
	Above float64 `json:"above"`
	Below float64 `json:"below"`
}

// ComputeBlankSpace returns the spacer sizes around s.
func ComputeBlankSpace[K comparable](layout Layout[K], s Slice) BlankSpace {
	n := layout.Len()
	if n == 0 {
		return BlankSpace{}
	}
	s = s.Clamp(n)

	var b BlankSpace
	if s.Start < n {
		b.Above = layout.At(s.Start).Top - layout.At(0).Top
	} else {
		b.Above = layout.Height()
	}
	if s.End < n {
		b.Below = layout.At(n-1).Bottom - layout.At(s.End).Top
	}
	return b
}
