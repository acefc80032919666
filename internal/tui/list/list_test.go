package list

import (
	"fmt"
	"strings"
	"testing"
	"time"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/stretchr/testify/require"
)

// threeLines draws every item as its key followed by two filler lines.
func threeLines(key string, _ int) string {
	return key + "\nfiller\nfiller"
}

func keys(n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = fmt.Sprintf("item %d", i)
	}
	return out
}

func waitTimer(t *testing.T, s *Scheduler) tea.Msg {
	t.Helper()
	select {
	case msg := <-s.msgs:
		return msg
	case <-time.After(5 * time.Second):
		t.Fatal("timer did not fire")
		return nil
	}
}

func newList(t *testing.T, opts ...ListOption) *Model {
	t.Helper()
	m := New(threeLines, append([]ListOption{WithAssumedHeight(8)}, opts...)...)
	t.Cleanup(m.Close)
	m.SetItems(keys(50))
	m.SetSize(40, 10)
	require.NotNil(t, m.Engine())
	return m
}

func TestListSettlesOnIdle(t *testing.T) {
	m := newList(t)

	require.Equal(t, scroller.Slice{Start: 0, End: 3}, m.Engine().Slice())
	require.Equal(t, 4.0, m.Engine().Heights().Or("item 0", 0), "three lines plus the gap")

	m.Update(idleMsg{})
	require.Equal(t, scroller.Slice{Start: 0, End: 4}, m.Engine().Slice())

	lines := strings.Split(m.View(), "\n")
	require.Len(t, lines, 10)
	require.True(t, strings.HasPrefix(lines[0], "item 0"))
	require.True(t, strings.HasPrefix(lines[4], "item 1"))
	require.True(t, strings.HasPrefix(lines[8], "item 2"))
	require.Equal(t, int64(1), m.Metrics().Positionings.Load())
}

func TestListScrollUpdatesWindow(t *testing.T) {
	m := newList(t)
	m.Update(idleMsg{})

	m.ScrollTo(20)
	m.flush()
	require.Equal(t, 20, m.Offset())
	require.Equal(t, scroller.Slice{Start: 0, End: 4}, m.Engine().Slice(), "scrolls are debounced")

	m.Update(waitTimer(t, m.sched))
	m.Update(frameMsg{})
	require.Equal(t, scroller.Slice{Start: 3, End: 7}, m.Engine().Slice())

	lines := strings.Split(m.View(), "\n")
	require.True(t, strings.HasPrefix(lines[0], "item 5"))
	require.Equal(t, int64(1), m.Metrics().FrameUpdates.Load())
}

func TestListSpacersFillUnmaterializedRows(t *testing.T) {
	m := newList(t)
	m.Update(idleMsg{})

	// Jump far away without letting the engine catch up.
	m.ScrollTo(100)
	m.flush()
	for _, line := range strings.Split(m.View(), "\n") {
		require.Contains(t, line, spacerGlyph)
	}
}

func TestListWidthChangeRestartsEngine(t *testing.T) {
	store := scroller.NewMemoryStore[string]()
	m := newList(t, WithHeightStore(store, "feed"))
	m.Update(idleMsg{})
	first := m.Engine()

	m.SetSize(60, 10)
	require.NotSame(t, first, m.Engine())
	require.Equal(t, scroller.StateUnmounted, first.State())

	saved, ok := store.Get("feed@40")
	require.True(t, ok)
	require.Equal(t, 4, saved.Len())

	// Same width again: the heights come back from the store.
	m.SetSize(40, 10)
	require.Equal(t, int64(1), m.Metrics().StoreHits.Load())
}

func TestListHeightChangeKeepsEngine(t *testing.T) {
	m := newList(t)
	e := m.Engine()

	m.SetSize(40, 20)
	require.Same(t, e, m.Engine())
	require.Len(t, strings.Split(m.View(), "\n"), 20)
}

func TestListPositioningHandler(t *testing.T) {
	type seen struct{ end int }
	var got []scroller.Positioning[string]
	m := newList(t, WithPositioningHandler(func(p scroller.Positioning[string]) tea.Cmd {
		got = append(got, p)
		return func() tea.Msg { return seen{p.SliceEnd} }
	}))

	_, cmd := m.Update(idleMsg{})
	require.Len(t, got, 1)
	require.Equal(t, 4, got[0].SliceEnd)
	require.NotNil(t, cmd)
}

func TestListSetItems(t *testing.T) {
	m := newList(t)
	m.Update(idleMsg{})

	m.SetItems(keys(2))
	require.Equal(t, scroller.Slice{Start: 0, End: 2}, m.Engine().Slice())
	lines := strings.Split(m.View(), "\n")
	require.True(t, strings.HasPrefix(lines[0], "item 0"))
	require.Contains(t, lines[9], spacerGlyph, "nothing below the last item")
}

func TestListKeys(t *testing.T) {
	m := newList(t)

	m.Update(tea.KeyPressMsg{Code: 'j', Text: "j"})
	require.Equal(t, 1, m.Offset())
	m.Update(tea.KeyPressMsg{Code: 'G', Text: "G"})
	require.Equal(t, m.maxTop(), m.Offset())
	m.Update(tea.KeyPressMsg{Code: 'g', Text: "g"})
	require.Equal(t, 0, m.Offset())
	m.Update(tea.KeyPressMsg{Code: 'k', Text: "k"})
	require.Equal(t, 0, m.Offset(), "clamped at the top")
}

func TestListSetOverscanRatio(t *testing.T) {
	m := newList(t)
	for range 10 {
		if len(m.sched.idles) == 0 && len(m.sched.frames) == 0 {
			break
		}
		m.Update(idleMsg{})
		m.Update(frameMsg{})
	}
	require.Empty(t, m.sched.idles)
	require.Equal(t, scroller.Slice{Start: 0, End: 4}, m.Engine().Slice())
	m.sched.idleRequested = false

	_, err := m.SetOverscanRatio(-1)
	require.Error(t, err)
	cmd, err := m.SetOverscanRatio(2)
	require.NoError(t, err)
	require.NotNil(t, cmd)
	require.True(t, m.sched.idleRequested, "the widened window is scheduled right away")

	m.Update(idleMsg{})
	require.Equal(t, scroller.Slice{Start: 0, End: 6}, m.Engine().Slice())

	_, err = m.SetScrollDebounce(0, 0)
	require.NoError(t, err)
}
