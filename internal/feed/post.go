// Package feed generates the posts shown by the demo and keeps track of which
// of them are listed.
package feed

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Post is one entry of the feed. Bodies are markdown and vary a lot in
// length, so the drawn height of a post is only known once it is rendered.
type Post struct {
	ID        string    `json:"id"`
	Author    string    `json:"author"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

var (
	authors = []string{
		"ayman", "bashbunni", "caarlos0", "christian", "maas", "meowgorithm",
		"muesli", "raphamorim", "toby", "vt100",
	}
	words = strings.Fields(`
		terminal glyph cursor buffer window scroll frame layout spacer height
		measure render slice viewport cache item list overscan idle tick
		burst debounce commit merge band prefix offset origin lipgloss glamour
		markdown paragraph column cell width ansi style border gutter margin
		padding charm tea bubble model update view message command program`)
	tags = []string{"tui", "go", "release", "question", "showcase", "perf", "til"}
)

// Generator produces an endless, reproducible sequence of posts.
type Generator struct {
	rng   *rand.Rand
	title cases.Caser
	next  int
	now   time.Time
}

// NewGenerator returns a generator whose output only depends on seed.
func NewGenerator(seed int64) *Generator {
	return &Generator{
		rng:   rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x9e3779b97f4a7c15)),
		title: cases.Title(language.English, cases.Compact),
		now:   time.Date(2025, time.June, 1, 12, 0, 0, 0, time.UTC),
	}
}

// Next returns n more posts.
func (g *Generator) Next(n int) []Post {
	posts := make([]Post, 0, max(n, 0))
	for range n {
		posts = append(posts, g.post())
	}
	return posts
}

func (g *Generator) post() Post {
	g.next++
	g.now = g.now.Add(-time.Duration(g.rng.IntN(90)+1) * time.Minute)

	p := Post{
		ID:        fmt.Sprintf("post-%d", g.next),
		Author:    authors[g.rng.IntN(len(authors))],
		Title:     g.title.String(g.words(3, 8)),
		CreatedAt: g.now,
	}
	for range g.rng.IntN(3) {
		p.Tags = append(p.Tags, tags[g.rng.IntN(len(tags))])
	}
	p.Body = g.body()
	return p
}

// body mixes block kinds so rendered posts range from one line to dozens.
func (g *Generator) body() string {
	var b strings.Builder
	blocks := 1 + g.rng.IntN(4)
	for i := range blocks {
		if i > 0 {
			b.WriteString("\n\n")
		}
		switch g.rng.IntN(6) {
		case 0:
			for range 2 + g.rng.IntN(4) {
				fmt.Fprintf(&b, "- %s\n", g.sentence(2, 7))
			}
		case 1:
			fmt.Fprintf(&b, "> %s", g.sentence(6, 20))
		case 2:
			b.WriteString("```go\n")
			for j := range 1 + g.rng.IntN(5) {
				fmt.Fprintf(&b, "%s%s := %q\n", strings.Repeat("\t", j%2), g.word(), g.word())
			}
			b.WriteString("```")
		default:
			b.WriteString(g.sentence(8, 60))
		}
	}
	return b.String()
}

func (g *Generator) word() string {
	return words[g.rng.IntN(len(words))]
}

func (g *Generator) words(minWords, maxWords int) string {
	n := minWords + g.rng.IntN(maxWords-minWords+1)
	parts := make([]string, n)
	for i := range parts {
		parts[i] = g.word()
	}
	return strings.Join(parts, " ")
}

func (g *Generator) sentence(minWords, maxWords int) string {
	s := g.words(minWords, maxWords)
	return strings.ToUpper(s[:1]) + s[1:] + "."
}
