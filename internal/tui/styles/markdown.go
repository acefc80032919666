package styles

import (
	"fmt"
	"image/color"

	"github.com/charmbracelet/glamour/v2/ansi"
)

const (
	defaultListIndent = 2
	defaultMargin     = 1
)

// colorToHex converts a color.Color to a hex string.
func colorToHex(c color.Color) string {
	r, g, b, _ := c.RGBA()
	return fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8)
}

// Helper functions for style pointers
func boolPtr(b bool) *bool       { return &b }
func stringPtr(s string) *string { return &s }
func uintPtr(u uint) *uint       { return &u }

// MarkdownStyle returns the glamour style of post bodies for the current
// theme. Backgrounds are left alone so bodies blend with the list.
func MarkdownStyle() ansi.StyleConfig {
	t := CurrentTheme()
	fg := stringPtr(colorToHex(t.FgBase))
	muted := stringPtr(colorToHex(t.FgMuted))
	accent := stringPtr(colorToHex(t.Secondary))
	code := stringPtr(colorToHex(t.Tertiary))
	codeBg := stringPtr(colorToHex(t.BgBaseLighter))

	return ansi.StyleConfig{
		Document: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: fg},
		},
		BlockQuote: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: muted, Italic: boolPtr(true)},
			Indent:         uintPtr(1),
			IndentToken:    stringPtr("│ "),
		},
		Paragraph: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{Color: fg},
		},
		List: ansi.StyleList{
			LevelIndent: defaultListIndent,
		},
		Heading: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				BlockSuffix: "\n",
				Bold:        boolPtr(true),
				Color:       accent,
			},
		},
		Emph: ansi.StylePrimitive{
			Italic: boolPtr(true),
		},
		Strong: ansi.StylePrimitive{
			Bold: boolPtr(true),
		},
		HorizontalRule: ansi.StylePrimitive{
			Format: "\n--------\n",
			Color:  muted,
		},
		Item: ansi.StylePrimitive{
			BlockPrefix: "• ",
		},
		Enumeration: ansi.StylePrimitive{
			BlockPrefix: ". ",
		},
		Link: ansi.StylePrimitive{
			Underline: boolPtr(true),
			Color:     accent,
		},
		Code: ansi.StyleBlock{
			StylePrimitive: ansi.StylePrimitive{
				Prefix:          " ",
				Suffix:          " ",
				Color:           code,
				BackgroundColor: codeBg,
			},
		},
		CodeBlock: ansi.StyleCodeBlock{
			StyleBlock: ansi.StyleBlock{
				StylePrimitive: ansi.StylePrimitive{Color: code},
				Margin:         uintPtr(defaultMargin),
			},
		},
	}
}
