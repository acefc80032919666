package feed

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/glamour/v2"
	gansi "github.com/charmbracelet/glamour/v2/ansi"
	"github.com/charmbracelet/x/ansi"
)

// Styles are the lipgloss styles of a post header.
type Styles struct {
	Author lipgloss.Style
	Meta   lipgloss.Style
	Title  lipgloss.Style
	Tag    lipgloss.Style
}

// Renderer turns posts into terminal text. Output is cached per post until
// the width changes.
type Renderer struct {
	styles   Styles
	markdown gansi.StyleConfig
	now      func() time.Time

	width int
	term  *glamour.TermRenderer
	cache map[string]string
}

// NewRenderer returns a renderer drawing bodies with the given markdown
// style.
func NewRenderer(styles Styles, markdown gansi.StyleConfig) *Renderer {
	return &Renderer{
		styles:   styles,
		markdown: markdown,
		now:      time.Now,
		cache:    make(map[string]string),
	}
}

// Width returns the width the cache was rendered at.
func (r *Renderer) Width() int {
	return r.width
}

// SetWidth changes the width posts are wrapped to and drops the cache when
// it differs from the current one.
func (r *Renderer) SetWidth(width int) {
	width = max(width, 1)
	if width == r.width {
		return
	}
	r.width = width
	r.term = nil
	clear(r.cache)
}

// Render returns the post drawn at the current width.
func (r *Renderer) Render(p Post) string {
	if out, ok := r.cache[p.ID]; ok {
		return out
	}
	out := r.header(p) + "\n" + r.body(p.Body)
	r.cache[p.ID] = out
	return out
}

// Forget drops the cached rendering of id.
func (r *Renderer) Forget(id string) {
	delete(r.cache, id)
}

func (r *Renderer) header(p Post) string {
	meta := []string{r.styles.Author.Render("@" + p.Author), r.styles.Meta.Render(since(r.now(), p.CreatedAt))}
	for _, t := range p.Tags {
		meta = append(meta, r.styles.Tag.Render("#"+t))
	}
	line := strings.Join(meta, r.styles.Meta.Render(" · "))
	title := ansi.Wordwrap(p.Title, r.width, "")
	return ansi.Truncate(line, r.width, "…") + "\n" + r.styles.Title.Render(title)
}

func (r *Renderer) body(md string) string {
	if r.term == nil {
		term, err := glamour.NewTermRenderer(
			glamour.WithStyles(r.markdown),
			glamour.WithWordWrap(r.width),
		)
		if err != nil {
			slog.Error("Failed to create markdown renderer", "error", err)
			return ansi.Wordwrap(md, r.width, "")
		}
		r.term = term
	}
	out, err := r.term.Render(md)
	if err != nil {
		slog.Error("Failed to render markdown", "error", err)
		return ansi.Wordwrap(md, r.width, "")
	}
	return strings.Trim(out, "\n")
}

func since(now, t time.Time) string {
	d := now.Sub(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return t.Format("Jan 2")
	}
}
