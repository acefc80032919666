package scroller_test

import (
	"testing"

	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestMergeSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		current scroller.Slice
		desired scroller.Slice
		want    scroller.Slice
	}{
		{
			name:    "contained keeps current",
			current: scroller.Slice{Start: 0, End: 10},
			desired: scroller.Slice{Start: 2, End: 5},
			want:    scroller.Slice{Start: 0, End: 10},
		},
		{
			name:    "equal keeps current",
			current: scroller.Slice{Start: 3, End: 6},
			desired: scroller.Slice{Start: 3, End: 6},
			want:    scroller.Slice{Start: 3, End: 6},
		},
		{
			name:    "disjoint below snaps",
			current: scroller.Slice{Start: 0, End: 3},
			desired: scroller.Slice{Start: 9, End: 13},
			want:    scroller.Slice{Start: 9, End: 13},
		},
		{
			name:    "adjacent counts as disjoint",
			current: scroller.Slice{Start: 0, End: 3},
			desired: scroller.Slice{Start: 3, End: 5},
			want:    scroller.Slice{Start: 3, End: 5},
		},
		{
			name:    "overlap downward",
			current: scroller.Slice{Start: 0, End: 5},
			desired: scroller.Slice{Start: 2, End: 8},
			want:    scroller.Slice{Start: 2, End: 8},
		},
		{
			name:    "overlap upward",
			current: scroller.Slice{Start: 5, End: 10},
			desired: scroller.Slice{Start: 3, End: 7},
			want:    scroller.Slice{Start: 3, End: 8},
		},
		{
			name:    "desired larger than current",
			current: scroller.Slice{Start: 4, End: 6},
			desired: scroller.Slice{Start: 2, End: 9},
			want:    scroller.Slice{Start: 2, End: 9},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, scroller.MergeSlice(tt.current, tt.desired))
		})
	}
}

func sliceGen(n int) *rapid.Generator[scroller.Slice] {
	return rapid.Custom(func(t *rapid.T) scroller.Slice {
		start := rapid.IntRange(0, n).Draw(t, "start")
		end := rapid.IntRange(start, n).Draw(t, "end")
		return scroller.Slice{Start: start, End: end}
	})
}

func TestMergeSliceConverges(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 200).Draw(t, "n")
		current := sliceGen(n).Draw(t, "current")
		desired := sliceGen(n).Draw(t, "desired")

		steps := 0
		for {
			next := scroller.MergeSlice(current, desired)

			// Never overshoots the hull of both ranges.
			require.GreaterOrEqual(t, next.Start, min(current.Start, desired.Start))
			require.LessOrEqual(t, next.End, max(current.End, desired.End))
			// Never narrows below what the viewport needs.
			require.True(t, next.Contains(desired), "%s does not contain %s", next, desired)

			if next == current {
				break
			}
			current = next
			steps++
			require.LessOrEqual(t, steps, n+1)
		}
	})
}

func TestMergeSliceIsStable(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(t, "n")
		l := uniform(n, float64(rapid.IntRange(1, 50).Draw(t, "assumed")))
		vp := scroller.ViewportRect{
			Top:    float64(rapid.IntRange(0, 5000).Draw(t, "top")),
			Height: float64(rapid.IntRange(1, 400).Draw(t, "height")),
		}
		current := sliceGen(n).Draw(t, "current")

		desired, ok := scroller.DesiredSlice(l, vp, scroller.DefaultOverscanRatio)
		require.True(t, ok)
		current = scroller.MergeSlice(current, desired)

		// Once merged, asking again with the same viewport is a no-op.
		again, _ := scroller.DesiredSlice(l, vp, scroller.DefaultOverscanRatio)
		require.True(t, current.Contains(again))
		require.Equal(t, current, scroller.MergeSlice(current, again))
	})
}
