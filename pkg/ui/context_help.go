package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Context names the interaction state the help modal describes.
type Context string

const (
	ContextBrowse  Context = "browse"
	ContextFocused Context = "focused"
	ContextRegion  Context = "region"
)

// ContextHelpContent contains compact help content for each context.
// Content should fit on one screen (~20 lines) without scrolling.
var ContextHelpContent = map[Context]string{
	ContextBrowse:  contextHelpBrowse,
	ContextFocused: contextHelpFocused,
	ContextRegion:  contextHelpRegion,
}

// GetContextHelp returns the help content for a given context.
// Falls back to generic help if the context has no specific content.
func GetContextHelp(ctx Context) string {
	if content, ok := ContextHelpContent[ctx]; ok {
		return content
	}
	return contextHelpGeneric
}

// RenderContextHelp renders the context-specific help modal.
func RenderContextHelp(ctx Context, theme Theme, width, height int) string {
	content := GetContextHelp(ctx)

	r := theme.Renderer

	modalWidth := 60
	if modalWidth > width-4 {
		modalWidth = width - 4
	}
	if modalWidth < 20 {
		modalWidth = 20
	}

	titleStyle := r.NewStyle().
		Bold(true).
		Foreground(theme.Primary)

	contentStyle := r.NewStyle().
		Foreground(theme.Subtext)

	footerStyle := r.NewStyle().
		Foreground(theme.Muted).
		Italic(true)

	var b strings.Builder
	b.WriteString(titleStyle.Render("Quick Reference"))
	b.WriteString("\n")
	b.WriteString(r.NewStyle().Foreground(theme.Border).Render(strings.Repeat("─", modalWidth-4)))
	b.WriteString("\n\n")
	b.WriteString(contentStyle.Render(content))
	b.WriteString("\n\n")
	b.WriteString(footerStyle.Render("? to close"))

	modalStyle := r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Secondary).
		Padding(1, 2).
		Width(modalWidth)

	out := modalStyle.Render(b.String())
	if height > 0 && width > 0 {
		out = lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, out)
	}
	return out
}

const contextHelpBrowse = `## Browsing

**Navigation**
  →/↓       Next sibling
  ←/↑       Previous sibling
  Enter     Enter container or focus item
  Esc       Exit to parent

**Other**
  r         Rebuild from layout file
  ?         Toggle this help
  q         Quit`

const contextHelpFocused = `## Focused Item

Navigation keys are held while an item
is focused. Item handlers run first.

**Keys**
  y         Copy item id
  x         Toggle item mark
  Esc       Release focus`

const contextHelpRegion = `## Viewport Region

The region on the right belongs to the
highlighted vendor in the side navigation.

**Navigation**
  Enter     Jump into the vendor's region
  →/←       Move within the region
  Esc       Return to the vendor`

const contextHelpGeneric = `## keynav

  Arrows    Move
  Enter     Enter / focus
  Esc       Exit / unfocus
  q         Quit`
