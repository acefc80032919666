package scroller_test

import (
	"testing"

	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/turbo/internal/scroller/scrollertest"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func uniform(n int, h float64) scroller.Layout[int] {
	return scroller.ComputeLayout(scrollertest.Keys(n), scroller.Heights[int]{}, h)
}

func TestDesiredSlice(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		n        int
		viewport scroller.ViewportRect
		ratio    float64
		want     scroller.Slice
	}{
		{
			name:     "top of the list",
			n:        100,
			viewport: scroller.ViewportRect{Top: 0, Height: 800},
			ratio:    0.5,
			want:     scroller.Slice{Start: 0, End: 3},
		},
		{
			name:     "scrolled to 4000",
			n:        100,
			viewport: scroller.ViewportRect{Top: 4000, Height: 800},
			ratio:    0.5,
			want:     scroller.Slice{Start: 9, End: 13},
		},
		{
			name:     "no overscan",
			n:        100,
			viewport: scroller.ViewportRect{Top: 4000, Height: 800},
			ratio:    0,
			want:     scroller.Slice{Start: 10, End: 12},
		},
		{
			name:     "past the end keeps the last item",
			n:        10,
			viewport: scroller.ViewportRect{Top: 10_000, Height: 800},
			ratio:    0.5,
			want:     scroller.Slice{Start: 9, End: 10},
		},
		{
			name:     "viewport taller than the list",
			n:        3,
			viewport: scroller.ViewportRect{Top: 0, Height: 5000},
			ratio:    0.5,
			want:     scroller.Slice{Start: 0, End: 3},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, ok := scroller.DesiredSlice(uniform(tt.n, 400), tt.viewport, tt.ratio)
			require.True(t, ok)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		_, ok := scroller.DesiredSlice(uniform(0, 400), scroller.ViewportRect{Height: 800}, 0.5)
		require.False(t, ok)
	})
}

func TestDesiredSliceBounds(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(1, 100).Draw(t, "n")
		measured := make(map[int]float64)
		for i := range n {
			measured[i] = float64(rapid.IntRange(0, 50).Draw(t, "height"))
		}
		l := scroller.ComputeLayout(scrollertest.Keys(n), scroller.NewHeights(measured), 20)
		vp := scroller.ViewportRect{
			Top:    float64(rapid.IntRange(-100, 3000).Draw(t, "top")),
			Height: float64(rapid.IntRange(0, 500).Draw(t, "height")),
		}
		ratio := rapid.Float64Range(0, 2).Draw(t, "ratio")

		s, ok := scroller.DesiredSlice(l, vp, ratio)
		require.True(t, ok)
		require.GreaterOrEqual(t, s.Start, 0)
		require.LessOrEqual(t, s.Start, s.End)
		require.LessOrEqual(t, s.End, n)
		require.Less(t, s.Start, n)

		// Every item intersecting the viewport is materialized.
		for i := range n {
			r := l.At(i)
			if r.Height > 0 && r.Bottom > vp.Top && r.Top < vp.Bottom() {
				require.True(t, s.Start <= i && i < s.End, "item %d visible but outside %s", i, s)
			}
		}
	})
}

func TestInitialSlice(t *testing.T) {
	t.Parallel()

	t.Run("fills one viewport past the first item", func(t *testing.T) {
		t.Parallel()
		s := scroller.InitialSlice(uniform(100, 400), 0, 800)
		require.Equal(t, scroller.Slice{Start: 0, End: 3}, s)
	})

	t.Run("starts at the initial index", func(t *testing.T) {
		t.Parallel()
		s := scroller.InitialSlice(uniform(100, 400), 50, 800)
		require.Equal(t, scroller.Slice{Start: 50, End: 53}, s)
	})

	t.Run("runs to the end of a short list", func(t *testing.T) {
		t.Parallel()
		s := scroller.InitialSlice(uniform(4, 400), 2, 800)
		require.Equal(t, scroller.Slice{Start: 2, End: 4}, s)
	})

	t.Run("index past the end is clamped", func(t *testing.T) {
		t.Parallel()
		s := scroller.InitialSlice(uniform(5, 400), 42, 800)
		require.Equal(t, scroller.Slice{Start: 4, End: 5}, s)
	})

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		require.True(t, scroller.InitialSlice(uniform(0, 400), 0, 800).Empty())
	})
}

func TestSliceClamp(t *testing.T) {
	t.Parallel()

	require.Equal(t, scroller.Slice{Start: 2, End: 5}, scroller.Slice{Start: 2, End: 5}.Clamp(10))
	require.Equal(t, scroller.Slice{Start: 2, End: 4}, scroller.Slice{Start: 2, End: 5}.Clamp(4))
	require.Equal(t, scroller.Slice{Start: 1, End: 1}, scroller.Slice{Start: 3, End: 5}.Clamp(1))
	require.Equal(t, scroller.Slice{}, scroller.Slice{Start: 3, End: 5}.Clamp(0))
	require.Equal(t, "[3, 5)", scroller.Slice{Start: 3, End: 5}.String())
}
