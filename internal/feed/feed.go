package feed

import (
	"strings"

	"github.com/sahilm/fuzzy"
)

// Feed holds every loaded post and the subset currently listed.
type Feed struct {
	posts []Post
	index map[string]int

	query   string
	matches []string
}

// New returns a feed holding posts.
func New(posts []Post) *Feed {
	f := &Feed{index: make(map[string]int, len(posts))}
	f.Append(posts)
	return f
}

// Append adds posts to the end of the feed. Posts with an ID already present
// are ignored. An active filter is re-run so new matches show up.
func (f *Feed) Append(posts []Post) {
	for _, p := range posts {
		if _, ok := f.index[p.ID]; ok {
			continue
		}
		f.index[p.ID] = len(f.posts)
		f.posts = append(f.posts, p)
	}
	if f.query != "" {
		f.Filter(f.query)
	}
}

// Len returns the number of loaded posts, ignoring the filter.
func (f *Feed) Len() int {
	return len(f.posts)
}

// Post returns the post with the given ID.
func (f *Feed) Post(id string) (Post, bool) {
	i, ok := f.index[id]
	if !ok {
		return Post{}, false
	}
	return f.posts[i], true
}

// Query returns the active filter.
func (f *Feed) Query() string {
	return f.query
}

// Filtered reports whether a filter is active.
func (f *Feed) Filtered() bool {
	return f.query != ""
}

// Keys returns the IDs of the listed posts in display order. The returned
// slice belongs to the caller.
func (f *Feed) Keys() []string {
	if f.query != "" {
		return append([]string(nil), f.matches...)
	}
	keys := make([]string, len(f.posts))
	for i, p := range f.posts {
		keys[i] = p.ID
	}
	return keys
}

// Filter lists the posts whose author, title or tags fuzzily match query,
// best match first. An empty query lists everything again.
func (f *Feed) Filter(query string) {
	f.query = strings.TrimSpace(query)
	f.matches = f.matches[:0]
	if f.query == "" {
		return
	}
	for _, m := range fuzzy.FindFrom(f.query, source(f.posts)) {
		f.matches = append(f.matches, f.posts[m.Index].ID)
	}
}

type source []Post

func (s source) Len() int { return len(s) }

func (s source) String(i int) string {
	p := s[i]
	return p.Author + " " + p.Title + " " + strings.Join(p.Tags, " ")
}
