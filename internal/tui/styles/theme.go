package styles

import (
	"image/color"
	"strings"

	"charm.land/bubbles/v2/help"
	"charm.land/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
)

type Theme struct {
	Name   string
	IsDark bool

	Primary   color.Color
	Secondary color.Color
	Tertiary  color.Color
	Accent    color.Color

	BgBase        color.Color
	BgBaseLighter color.Color
	BgSubtle      color.Color
	BgOverlay     color.Color

	FgBase      color.Color
	FgMuted     color.Color
	FgHalfMuted color.Color
	FgSubtle    color.Color
	FgSelected  color.Color

	Border      color.Color
	BorderFocus color.Color

	Success color.Color
	Error   color.Color
	Warning color.Color
	Info    color.Color

	White  color.Color
	Blue   color.Color
	Yellow color.Color
	Green  color.Color
	Red    color.Color

	styles *Styles
}

// Styles are the lipgloss styles derived from a theme.
type Styles struct {
	Base   lipgloss.Style
	Muted  lipgloss.Style
	Subtle lipgloss.Style

	// Feed posts.
	Author lipgloss.Style
	Title  lipgloss.Style
	Tag    lipgloss.Style

	// List chrome.
	Spacer     lipgloss.Style
	ScrollBar  lipgloss.Style
	ScrollKnob lipgloss.Style

	// Status bar.
	Status      lipgloss.Style
	StatusKey   lipgloss.Style
	StatusValue lipgloss.Style
	StatusInfo  lipgloss.Style
	StatusError lipgloss.Style

	Prompt lipgloss.Style
	Help   help.Styles
}

// S returns the styles of the theme, building them on first use.
func (t *Theme) S() *Styles {
	if t.styles == nil {
		t.styles = t.buildStyles()
	}
	return t.styles
}

func (t *Theme) buildStyles() *Styles {
	base := lipgloss.NewStyle().Foreground(t.FgBase)
	return &Styles{
		Base:   base,
		Muted:  base.Foreground(t.FgMuted),
		Subtle: base.Foreground(t.FgSubtle),

		Author: base.Foreground(t.Secondary).Bold(true),
		Title:  base.Foreground(t.White).Bold(true),
		Tag:    base.Foreground(t.Tertiary),

		Spacer:     base.Foreground(t.BgSubtle),
		ScrollBar:  base.Foreground(t.BgOverlay),
		ScrollKnob: base.Foreground(t.Primary),

		Status:      base.Background(t.BgBaseLighter).Padding(0, 1),
		StatusKey:   base.Foreground(t.FgMuted).Background(t.BgBaseLighter),
		StatusValue: base.Foreground(t.FgSelected).Background(t.BgBaseLighter),
		StatusInfo:  base.Foreground(t.Info).Background(t.BgBaseLighter),
		StatusError: base.Foreground(t.Error).Background(t.BgBaseLighter),

		Prompt: base.Foreground(t.Accent).Bold(true),
		Help: help.Styles{
			ShortKey:       base.Foreground(t.FgMuted),
			ShortDesc:      base.Foreground(t.FgSubtle),
			ShortSeparator: base.Foreground(t.Border),
			Ellipsis:       base.Foreground(t.Border),
			FullKey:        base.Foreground(t.FgMuted),
			FullDesc:       base.Foreground(t.FgSubtle),
			FullSeparator:  base.Foreground(t.Border),
		},
	}
}

var currentTheme *Theme

// CurrentTheme returns the active theme.
func CurrentTheme() *Theme {
	if currentTheme == nil {
		currentTheme = NewCharmtoneTheme()
	}
	return currentTheme
}

// Blend returns the color t of the way from a to b, mixed in the Lab space.
// t is clamped to [0, 1].
func Blend(a, b color.Color, t float64) color.Color {
	ca, ok := colorful.MakeColor(a)
	if !ok {
		return b
	}
	cb, ok := colorful.MakeColor(b)
	if !ok {
		return a
	}
	return ca.BlendLab(cb, min(max(t, 0), 1)).Clamped()
}

// Gradient returns n colors going from a to b.
func Gradient(a, b color.Color, n int) []color.Color {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []color.Color{a}
	}
	out := make([]color.Color, n)
	for i := range out {
		out[i] = Blend(a, b, float64(i)/float64(n-1))
	}
	return out
}

// ForegroundGrad renders s with one color per rune going from a to b.
func ForegroundGrad(s string, a, b color.Color) string {
	runes := []rune(s)
	colors := Gradient(a, b, len(runes))
	var sb strings.Builder
	for i, r := range runes {
		sb.WriteString(lipgloss.NewStyle().Foreground(colors[i]).Render(string(r)))
	}
	return sb.String()
}
