package ui

import "github.com/charmbracelet/lipgloss"

// Theme holds the colors and shared styles of the terminal renderer.
type Theme struct {
	Renderer *lipgloss.Renderer

	Primary   lipgloss.AdaptiveColor
	Secondary lipgloss.AdaptiveColor
	Text      lipgloss.AdaptiveColor
	Subtext   lipgloss.AdaptiveColor
	Muted     lipgloss.AdaptiveColor
	Highlight lipgloss.AdaptiveColor
	Border    lipgloss.AdaptiveColor
	Focused   lipgloss.AdaptiveColor
	Error     lipgloss.AdaptiveColor

	Base     lipgloss.Style
	Selected lipgloss.Style // Cursor row
	Active   lipgloss.Style // Cursor row while focused
	Pane     lipgloss.Style
}

// DefaultTheme returns the default palette bound to r.
func DefaultTheme(r *lipgloss.Renderer) Theme {
	t := Theme{
		Renderer: r,

		Primary:   lipgloss.AdaptiveColor{Light: "#5A56E0", Dark: "#BD93F9"},
		Secondary: lipgloss.AdaptiveColor{Light: "#0F7B6C", Dark: "#8BE9FD"},
		Text:      lipgloss.AdaptiveColor{Light: "#000000", Dark: "#f8f8f2"},
		Subtext:   lipgloss.AdaptiveColor{Light: "#444444", Dark: "#BFBFBF"},
		Muted:     lipgloss.AdaptiveColor{Light: "#888888", Dark: "#6272A4"},
		Highlight: lipgloss.AdaptiveColor{Light: "#B45F06", Dark: "#FFB86C"},
		Border:    lipgloss.AdaptiveColor{Light: "#CCCCCC", Dark: "#44475A"},
		Focused:   lipgloss.AdaptiveColor{Light: "#2E7D32", Dark: "#50FA7B"},
		Error:     lipgloss.AdaptiveColor{Light: "#C62828", Dark: "#FF5555"},
	}

	t.Base = r.NewStyle().Foreground(t.Text)
	t.Selected = r.NewStyle().
		Background(t.Border).
		Foreground(t.Primary).
		Bold(true)
	t.Active = r.NewStyle().
		Background(t.Focused).
		Foreground(lipgloss.AdaptiveColor{Light: "#FFFFFF", Dark: "#282A36"}).
		Bold(true)
	t.Pane = r.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Border).
		Padding(0, 1)

	return t
}
