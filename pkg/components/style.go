package components

import "github.com/charmbracelet/lipgloss"

// Palette colours. Adaptive so light terminals stay readable.
var (
	ColorAccent = lipgloss.AdaptiveColor{Light: "#5A3FC0", Dark: "#B4A0FF"}
	ColorMuted  = lipgloss.AdaptiveColor{Light: "#6B6B6B", Dark: "#8A8A8A"}
	ColorError  = lipgloss.AdaptiveColor{Light: "#C0392B", Dark: "#FF6B6B"}
	ColorRank   = lipgloss.AdaptiveColor{Light: "#B7791F", Dark: "#F6C05C"}
	ColorSelBG  = lipgloss.AdaptiveColor{Light: "#E6E0FF", Dark: "#3A2F66"}
)

// Styles used across views.
var (
	TitleStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	HeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(ColorMuted)
	MutedStyle    = lipgloss.NewStyle().Foreground(ColorMuted)
	ErrorStyle    = lipgloss.NewStyle().Bold(true).Foreground(ColorError)
	RankStyle     = lipgloss.NewStyle().Foreground(ColorRank)
	SelectedStyle = lipgloss.NewStyle().Bold(true).Background(ColorSelBG)

	PanelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorMuted).
			Padding(0, 1)
)
