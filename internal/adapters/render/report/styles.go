package report

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title      lipgloss.Style
	header     lipgloss.Style
	detail     lipgloss.Style
	ok         lipgloss.Style
	warning    lipgloss.Style
	failure    lipgloss.Style
	section    lipgloss.Style
	empty      lipgloss.Style
	step       lipgloss.Style
	channel    lipgloss.Style
	diff       lipgloss.Style
	historyKey lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:      lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		detail:     lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		ok:         lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("78")),
		warning:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214")),
		failure:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("203")),
		section:    lipgloss.NewStyle().MarginTop(1),
		empty:      lipgloss.NewStyle().Faint(true),
		step:       lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		channel:    lipgloss.NewStyle().Foreground(lipgloss.Color("250")),
		diff:       lipgloss.NewStyle().Foreground(lipgloss.Color("245")).PaddingLeft(4),
		historyKey: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
}
