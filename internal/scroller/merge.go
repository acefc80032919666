package scroller

// MergeSlice moves the materialized range from current toward desired.
//
// A desired range already covered by current keeps current as is, so items
// that are still mounted are not torn down on every small scroll. A desired
// range that does not touch current replaces it. Anything in between grows
// toward desired and gives back at most the larger of the two one-sided
// extensions from the opposite end.
func MergeSlice(current, desired Slice) Slice {
	if current.Contains(desired) {
		return current
	}
	if desired.Start >= current.End || desired.End <= current.Start {
		return desired
	}

	diff := max(current.Start-desired.Start, desired.End-current.End)
	return Slice{
		Start: min(current.Start+diff, desired.Start),
		End:   max(current.End-diff, desired.End),
	}
}
