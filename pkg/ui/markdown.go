package ui

import (
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/glamour/ansi"
	"github.com/charmbracelet/glamour/styles"
	"github.com/charmbracelet/lipgloss"
)

// MarkdownRenderer renders region bodies with glamour, styled from the
// theme. The underlying renderer is rebuilt only when the wrap width changes.
type MarkdownRenderer struct {
	renderer *glamour.TermRenderer
	width    int
	style    ansi.StyleConfig
}

// NewMarkdownRenderer creates a renderer wrapping at width with colors taken
// from theme for the terminal's background.
func NewMarkdownRenderer(width int, theme Theme) *MarkdownRenderer {
	mr := &MarkdownRenderer{
		width: width,
		style: buildStyleFromTheme(theme, hasDarkBackground(theme)),
	}
	mr.rebuild()
	return mr
}

func (mr *MarkdownRenderer) rebuild() {
	// A nil renderer falls back to raw markdown in Render.
	mr.renderer, _ = glamour.NewTermRenderer(
		glamour.WithStyles(mr.style),
		glamour.WithWordWrap(mr.width),
	)
}

// Render returns the rendered markdown, or the input unchanged when no
// renderer is available.
func (mr *MarkdownRenderer) Render(markdown string) (string, error) {
	if mr.renderer == nil {
		return markdown, nil
	}
	return mr.renderer.Render(markdown)
}

// SetWidth changes the wrap width. Non-positive widths are ignored.
func (mr *MarkdownRenderer) SetWidth(width int) {
	if width <= 0 || width == mr.width {
		return
	}
	mr.width = width
	mr.rebuild()
}

func hasDarkBackground(theme Theme) bool {
	if theme.Renderer != nil {
		return theme.Renderer.HasDarkBackground()
	}
	return lipgloss.HasDarkBackground()
}

func extractHex(c lipgloss.AdaptiveColor, dark bool) string {
	if dark {
		return c.Dark
	}
	return c.Light
}

func buildStyleFromTheme(theme Theme, dark bool) ansi.StyleConfig {
	cfg := styles.LightStyleConfig
	if dark {
		cfg = styles.DarkStyleConfig
	}

	text := extractHex(theme.Text, dark)
	primary := extractHex(theme.Primary, dark)
	secondary := extractHex(theme.Secondary, dark)
	highlight := extractHex(theme.Highlight, dark)

	cfg.Document.Color = &text
	cfg.H1.Color = &primary
	cfg.H2.Color = &primary
	cfg.H3.Color = &secondary
	cfg.Link.Color = &secondary
	cfg.Code.Color = &highlight
	return cfg
}
