package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/suPer8Hu/journal-terminal/internal/theme"
)

// Styles are derived from the active palette and rebuilt whenever the theme changes.
type Styles struct {
	Frame       lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	Dim         lipgloss.Style
	Accent      lipgloss.Style
	Danger      lipgloss.Style
	ActiveTab   lipgloss.Style
	InactiveTab lipgloss.Style
	Selected    lipgloss.Style
	Marked      lipgloss.Style
	User        lipgloss.Style
	Assistant   lipgloss.Style
	Toast       lipgloss.Style
	ToastErr    lipgloss.Style
	Overlay     lipgloss.Style
	Box         lipgloss.Style
}

func newStyles(v theme.Variant) Styles {
	p := theme.Resolve(v)
	fg := lipgloss.Color(p.Foreground)
	dim := lipgloss.Color(p.Dim)
	accent := lipgloss.Color(p.Accent)
	border := lipgloss.Color(p.Border)
	danger := lipgloss.Color(p.Danger)
	glow := lipgloss.Color(p.Glow)

	return Styles{
		Frame: lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(border).
			Padding(0, 1),
		Title:       lipgloss.NewStyle().Foreground(glow).Bold(true),
		Text:        lipgloss.NewStyle().Foreground(fg),
		Dim:         lipgloss.NewStyle().Foreground(dim),
		Accent:      lipgloss.NewStyle().Foreground(accent),
		Danger:      lipgloss.NewStyle().Foreground(danger).Bold(true),
		ActiveTab:   lipgloss.NewStyle().Foreground(lipgloss.Color(p.Background)).Background(fg).Padding(0, 1).Bold(true),
		InactiveTab: lipgloss.NewStyle().Foreground(dim).Padding(0, 1),
		Selected:    lipgloss.NewStyle().Foreground(glow).Bold(true),
		Marked:      lipgloss.NewStyle().Foreground(danger),
		User:        lipgloss.NewStyle().Foreground(accent),
		Assistant:   lipgloss.NewStyle().Foreground(fg),
		Toast: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accent).
			Foreground(accent).
			Padding(0, 1),
		ToastErr: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(danger).
			Foreground(danger).
			Padding(0, 1),
		Overlay: lipgloss.NewStyle().
			Border(lipgloss.ThickBorder()).
			BorderForeground(glow).
			Padding(1, 2),
		Box: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(border).
			Padding(0, 1),
	}
}
