package scroller_test

import (
	"math"
	"testing"

	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/stretchr/testify/require"
)

func TestNewHeightsDropsInvalid(t *testing.T) {
	t.Parallel()

	h := scroller.NewHeights(map[string]float64{
		"ok":   12,
		"zero": 0,
		"neg":  -1,
		"nan":  math.NaN(),
		"inf":  math.Inf(1),
	})
	require.Equal(t, 2, h.Len())
	v, ok := h.Get("zero")
	require.True(t, ok)
	require.Zero(t, v)
	_, ok = h.Get("neg")
	require.False(t, ok)
	require.Equal(t, 7.0, h.Or("nan", 7))
}

func TestRecordHeights(t *testing.T) {
	t.Parallel()

	t.Run("unmeasurable items are skipped", func(t *testing.T) {
		t.Parallel()
		m := scroller.MeasurerFunc[int](func(int) (float64, bool) { return 0, false })
		h := scroller.NewHeights(map[int]float64{1: 5})

		got, res := scroller.RecordHeights([]int{1, 2, 3}, h, 10, m)
		require.False(t, res.Changed)
		require.Zero(t, res.Measured)
		require.Equal(t, h.Map(), got.Map())
		_, ok := got.Get(2)
		require.False(t, ok)
	})

	t.Run("heights equal to the assumed one are not recorded", func(t *testing.T) {
		t.Parallel()
		m := scroller.MeasurerFunc[int](func(int) (float64, bool) { return 10, true })

		got, res := scroller.RecordHeights([]int{1, 2}, scroller.Heights[int]{}, 10, m)
		require.False(t, res.Changed)
		require.Equal(t, 2, res.Measured)
		require.Zero(t, got.Len())
	})

	t.Run("changes are copied on write", func(t *testing.T) {
		t.Parallel()
		realized := map[int]float64{1: 30, 2: 5, 3: 10}
		m := scroller.MeasurerFunc[int](func(k int) (float64, bool) {
			v, ok := realized[k]
			return v, ok
		})
		old := scroller.NewHeights(map[int]float64{2: 5, 9: 1})

		got, res := scroller.RecordHeights([]int{1, 2, 3, 4}, old, 10, m)
		require.True(t, res.Changed)
		require.Equal(t, 3, res.Measured)
		require.Equal(t, 20.0, res.Delta)
		require.Equal(t, map[int]float64{1: 30, 2: 5, 9: 1}, got.Map())

		// The previous cache is untouched.
		require.Equal(t, map[int]float64{2: 5, 9: 1}, old.Map())
	})

	t.Run("invalid observations are ignored", func(t *testing.T) {
		t.Parallel()
		m := scroller.MeasurerFunc[int](func(int) (float64, bool) { return -3, true })
		got, res := scroller.RecordHeights([]int{1}, scroller.Heights[int]{}, 10, m)
		require.False(t, res.Changed)
		require.Zero(t, got.Len())
	})

	t.Run("shrinking gives a negative delta", func(t *testing.T) {
		t.Parallel()
		m := scroller.MeasurerFunc[int](func(int) (float64, bool) { return 0, true })
		_, res := scroller.RecordHeights([]int{1, 2}, scroller.Heights[int]{}, 4, m)
		require.True(t, res.Changed)
		require.Equal(t, -8.0, res.Delta)
	})
}

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	s := scroller.NewMemoryStore[int]()
	_, ok := s.Get("feed")
	require.False(t, ok)

	s.Set("feed", scroller.NewHeights(map[int]float64{1: 2}))
	h, ok := s.Get("feed")
	require.True(t, ok)
	require.Equal(t, 2.0, h.Or(1, 0))
	require.Equal(t, 1, s.Len())
	require.Equal(t, uint64(1), s.Version())

	s.Delete("feed")
	require.Zero(t, s.Len())
	require.Equal(t, uint64(2), s.Version())
}
