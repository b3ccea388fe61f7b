package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
)

const (
	helpMargin    = 2
	helpCodeTheme = "dracula"
)

// RenderMarkdown renders the verbose help for a terminal of the given width.
// A non-positive width uses DefaultTermWidth.
func RenderMarkdown(content string, width int) (string, error) {
	if width <= 0 {
		width = DefaultTermWidth
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStyles(helpMarkdownStyle()),
		glamour.WithWordWrap(width-helpMargin),
	)
	if err != nil {
		return "", err
	}
	out, err := r.Render(content)
	if err != nil {
		return "", err
	}
	return strings.TrimRight(out, "\n") + "\n", nil
}

// helpMarkdownStyle is a compact glamour theme in the CLI accent color.
func helpMarkdownStyle() ansi.StyleConfig {
	accent, muted := ptr(defaultAccent), ptr("245")
	if c, ok := AccentColor(); ok {
		accent = ptr(c)
	}
	heading := func(prefix string, underline bool) ansi.StyleBlock {
		return ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Prefix: prefix, Underline: ptr(underline)}}
	}

	var s ansi.StyleConfig
	s.Document = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{BlockPrefix: "\n", BlockSuffix: "\n"},
		Margin:         ptr(uint(helpMargin)),
	}
	s.Heading = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{
		BlockSuffix: "\n",
		Color:       accent,
		Bold:        ptr(true),
	}}
	s.H1 = heading("", true)
	s.H2 = heading("", true)
	s.H3 = heading("› ", false)
	s.H4 = heading("› ", false)
	s.Paragraph = ansi.StyleBlock{}
	s.List = ansi.StyleList{LevelIndent: 2}
	s.Item = ansi.StylePrimitive{BlockPrefix: "- "}
	s.Enumeration = ansi.StylePrimitive{BlockPrefix: ". "}
	s.Emph = ansi.StylePrimitive{Italic: ptr(true)}
	s.Strong = ansi.StylePrimitive{Bold: ptr(true)}
	s.Code = ansi.StyleBlock{StylePrimitive: ansi.StylePrimitive{Color: accent}}
	s.CodeBlock = ansi.StyleCodeBlock{
		StyleBlock: ansi.StyleBlock{Margin: ptr(uint(2))},
		Theme:      helpCodeTheme,
	}
	s.Link = ansi.StylePrimitive{Color: muted, Underline: ptr(true)}
	s.LinkText = ansi.StylePrimitive{Bold: ptr(true)}
	s.BlockQuote = ansi.StyleBlock{
		StylePrimitive: ansi.StylePrimitive{Color: muted},
		Indent:         ptr(uint(1)),
		IndentToken:    ptr("┃ "),
	}
	s.HorizontalRule = ansi.StylePrimitive{Color: muted, Format: "\n────────\n"}
	return s
}

func ptr[T any](v T) *T { return &v }
