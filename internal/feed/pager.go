package feed

import "github.com/charmbracelet/turbo/internal/scroller"

// Pager decides when the feed needs another page. At most one load is in
// flight at a time.
type Pager struct {
	PageSize int
	MaxPosts int

	loading bool
}

// NewPager returns a pager loading pageSize posts at a time until maxPosts
// are loaded. A maxPosts of zero means no limit.
func NewPager(pageSize, maxPosts int) *Pager {
	return &Pager{PageSize: pageSize, MaxPosts: maxPosts}
}

// Loading reports whether a page is being loaded.
func (p *Pager) Loading() bool {
	return p.loading
}

// Want reports whether pos shows the end of the listed posts and another page
// should be loaded. On true the pager is locked until Done is called.
func (p *Pager) Want(f *Feed, pos scroller.Positioning[string]) bool {
	if p.loading || f.Filtered() || p.PageSize <= 0 {
		return false
	}
	if p.MaxPosts > 0 && f.Len() >= p.MaxPosts {
		return false
	}
	if pos.SliceEnd < f.Len() {
		return false
	}
	p.loading = true
	return true
}

// Size returns how many posts the next page should hold given the feed's
// current length.
func (p *Pager) Size(f *Feed) int {
	if p.MaxPosts <= 0 {
		return p.PageSize
	}
	return max(0, min(p.PageSize, p.MaxPosts-f.Len()))
}

// Done unlocks the pager.
func (p *Pager) Done() {
	p.loading = false
}
