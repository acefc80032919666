package feed

import (
	"strings"
	"testing"
	"time"

	gansi "github.com/charmbracelet/glamour/v2/ansi"
	"github.com/charmbracelet/turbo/internal/scroller"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestGeneratorIsReproducible(t *testing.T) {
	t.Parallel()

	a := NewGenerator(42).Next(20)
	b := NewGenerator(42).Next(20)
	require.Equal(t, a, b)
	require.NotEqual(t, a, NewGenerator(43).Next(20))

	seen := map[string]bool{}
	for _, p := range a {
		require.False(t, seen[p.ID], "duplicate id %s", p.ID)
		seen[p.ID] = true
		require.NotEmpty(t, p.Body)
		for _, w := range strings.Fields(p.Title) {
			require.Equal(t, strings.ToUpper(w[:1]), w[:1], "title %q", p.Title)
		}
	}
	require.Empty(t, NewGenerator(1).Next(0))
}

func TestFeedAppendAndFilter(t *testing.T) {
	t.Parallel()

	f := New([]Post{
		{ID: "1", Author: "muesli", Title: "Glamour rendering"},
		{ID: "2", Author: "toby", Title: "Bubble tea release"},
	})
	require.Equal(t, []string{"1", "2"}, f.Keys())

	f.Append([]Post{{ID: "2", Author: "dup"}, {ID: "3", Author: "maas", Title: "Glamour tables"}})
	require.Equal(t, 3, f.Len())
	p, ok := f.Post("2")
	require.True(t, ok)
	require.Equal(t, "toby", p.Author)

	f.Filter("  glamour ")
	require.True(t, f.Filtered())
	require.Equal(t, "glamour", f.Query())
	require.ElementsMatch(t, []string{"1", "3"}, f.Keys())

	// New posts matching the filter show up right away.
	f.Append([]Post{{ID: "4", Author: "x", Title: "More glamour"}})
	require.Contains(t, f.Keys(), "4")

	f.Filter("")
	require.False(t, f.Filtered())
	require.Equal(t, []string{"1", "2", "3", "4"}, f.Keys())

	_, ok = f.Post("missing")
	require.False(t, ok)
}

func TestFeedKeysAreCopies(t *testing.T) {
	t.Parallel()

	f := New(NewGenerator(1).Next(3))
	keys := f.Keys()
	keys[0] = "changed"
	require.NotEqual(t, "changed", f.Keys()[0])
}

func TestPager(t *testing.T) {
	t.Parallel()

	g := NewGenerator(1)
	f := New(g.Next(10))
	p := NewPager(4, 12)
	end := scroller.Positioning[string]{SliceStart: 6, SliceEnd: 10}

	require.False(t, p.Want(f, scroller.Positioning[string]{SliceEnd: 9}))
	require.True(t, p.Want(f, end))
	require.True(t, p.Loading())
	require.False(t, p.Want(f, end), "only one load at a time")
	require.Equal(t, 2, p.Size(f))

	p.Done()
	require.False(t, p.Loading())

	f.Filter("anything")
	require.False(t, p.Want(f, end), "filtered feeds do not page")
	f.Filter("")

	f.Append(g.Next(2))
	require.False(t, p.Want(f, scroller.Positioning[string]{SliceEnd: 12}), "limit reached")

	unlimited := NewPager(5, 0)
	require.Equal(t, 5, unlimited.Size(f))
}

func TestRenderer(t *testing.T) {
	t.Parallel()

	r := NewRenderer(Styles{}, gansi.StyleConfig{})
	r.now = func() time.Time { return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC) }
	r.SetWidth(30)

	p := Post{
		ID:        "p",
		Author:    "toby",
		Title:     "A title",
		Body:      strings.Repeat("word ", 40),
		Tags:      []string{"go"},
		CreatedAt: time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC),
	}
	out := r.Render(p)
	lines := strings.Split(out, "\n")
	require.Greater(t, len(lines), 3)
	require.Contains(t, lines[0], "@toby")
	require.Contains(t, lines[0], "2h ago")
	require.Contains(t, lines[0], "#go")
	for _, l := range lines {
		require.LessOrEqual(t, ansi.StringWidth(l), 30)
	}

	// Cached until the width changes.
	r.cache["p"] = "cached"
	require.Equal(t, "cached", r.Render(p))
	r.SetWidth(30)
	require.Equal(t, "cached", r.Render(p))
	r.SetWidth(80)
	require.Equal(t, 80, r.Width())
	narrow := len(lines)
	require.Less(t, len(strings.Split(r.Render(p), "\n")), narrow)

	r.Forget("p")
	_, ok := r.cache["p"]
	require.False(t, ok)
}

func TestSince(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.Equal(t, "just now", since(now, now.Add(-10*time.Second)))
	require.Equal(t, "5m ago", since(now, now.Add(-5*time.Minute)))
	require.Equal(t, "3h ago", since(now, now.Add(-3*time.Hour)))
	require.Equal(t, "May 1", since(now, now.AddDate(0, -1, 0)))
}
