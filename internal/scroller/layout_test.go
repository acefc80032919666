package scroller_test

import (
	"testing"

	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/turbo/internal/scroller/scrollertest"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestComputeLayout(t *testing.T) {
	t.Parallel()

	t.Run("empty list", func(t *testing.T) {
		t.Parallel()
		l := scroller.ComputeLayout[int](nil, scroller.Heights[int]{}, 400)
		require.Equal(t, 0, l.Len())
		require.Zero(t, l.Height())
		require.Empty(t, l.Map())
	})

	t.Run("measured heights replace the assumed one", func(t *testing.T) {
		t.Parallel()
		heights := scroller.NewHeights(map[string]float64{"b": 10, "c": 0})
		l := scroller.ComputeLayout([]string{"a", "b", "c", "d"}, heights, 5)

		require.Equal(t, scroller.Rect{Top: 0, Height: 5, Bottom: 5}, l.At(0))
		require.Equal(t, scroller.Rect{Top: 5, Height: 10, Bottom: 15}, l.At(1))
		require.Equal(t, scroller.Rect{Top: 15, Height: 0, Bottom: 15}, l.At(2))
		require.Equal(t, scroller.Rect{Top: 15, Height: 5, Bottom: 20}, l.At(3))
		require.Equal(t, 20.0, l.Height())

		r, ok := l.Rect("b")
		require.True(t, ok)
		require.Equal(t, 5.0, r.Top)
		_, ok = l.Rect("z")
		require.False(t, ok)
	})

	t.Run("map is a copy", func(t *testing.T) {
		t.Parallel()
		l := scroller.ComputeLayout([]int{1, 2}, scroller.Heights[int]{}, 3)
		m := l.Map()
		m[1] = scroller.Rect{Top: 99}
		r, _ := l.Rect(1)
		require.Zero(t, r.Top)
	})

	t.Run("measured item shifts the ones after it", func(t *testing.T) {
		t.Parallel()
		keys := scrollertest.Keys(100)
		before := scroller.ComputeLayout(keys, scroller.Heights[int]{}, 400)
		after := scroller.ComputeLayout(keys, scroller.NewHeights(map[int]float64{3: 800}), 400)

		for i := range 4 {
			require.Equal(t, before.At(i).Top, after.At(i).Top, "item %d", i)
		}
		for i := 4; i < 100; i++ {
			require.Equal(t, before.At(i).Top+400, after.At(i).Top, "item %d", i)
		}
		require.Equal(t, before.Height()+400, after.Height())
	})
}

func TestComputeLayoutPrefixSum(t *testing.T) {
	t.Parallel()

	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 200).Draw(t, "n")
		assumed := rapid.Float64Range(0.5, 500).Draw(t, "assumed")
		measured := make(map[int]float64)
		for i := range n {
			if rapid.Bool().Draw(t, "measured") {
				measured[i] = rapid.Float64Range(0, 1000).Draw(t, "height")
			}
		}

		l := scroller.ComputeLayout(scrollertest.Keys(n), scroller.NewHeights(measured), assumed)
		require.Equal(t, n, l.Len())
		if n == 0 {
			return
		}
		require.Zero(t, l.At(0).Top)
		for i := range n - 1 {
			require.Equal(t, l.At(i).Bottom, l.At(i+1).Top)
		}
		for i := range n {
			want := assumed
			if h, ok := measured[i]; ok {
				want = h
			}
			require.Equal(t, want, l.At(i).Height)
		}
	})
}
