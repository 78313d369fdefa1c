package status

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title   lipgloss.Style
	header  lipgloss.Style
	section lipgloss.Style
	empty   lipgloss.Style
	name    lipgloss.Style
	detail  lipgloss.Style
	meta    lipgloss.Style
	badges  map[string]lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true),
		header:  lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		section: lipgloss.NewStyle().MarginTop(1),
		empty:   lipgloss.NewStyle().Faint(true),
		name:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		detail:  lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		meta:    lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		// One badge style per display-status token.
		badges: map[string]lipgloss.Style{
			"active":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("42")),
			"recent":  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220")),
			"past":    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("208")),
			"idle":    lipgloss.NewStyle().Foreground(lipgloss.Color("244")),
			"unknown": lipgloss.NewStyle().Faint(true),
		},
	}
}

func (s styles) badge(token string) lipgloss.Style {
	if style, ok := s.badges[token]; ok {
		return style
	}

	return s.badges["unknown"]
}
