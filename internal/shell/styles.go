package shell

import "github.com/charmbracelet/lipgloss"

type styles struct {
	banner     lipgloss.Style
	breadcrumb lipgloss.Style
	tableTitle lipgloss.Style
	header     lipgloss.Style
	id         lipgloss.Style
	title      lipgloss.Style
	count      lipgloss.Style
	hint       lipgloss.Style
	success    lipgloss.Style
	problem    lipgloss.Style
	empty      lipgloss.Style
}

func newStyles() styles {
	return styles{
		banner:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46")),
		breadcrumb: lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		tableTitle: lipgloss.NewStyle().Bold(true),
		header:     lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		id:         lipgloss.NewStyle().Foreground(lipgloss.Color("51")),
		title:      lipgloss.NewStyle().Foreground(lipgloss.Color("213")),
		count:      lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		hint:       lipgloss.NewStyle().Faint(true),
		success:    lipgloss.NewStyle().Foreground(lipgloss.Color("46")),
		problem:    lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		empty:      lipgloss.NewStyle().Faint(true),
	}
}
