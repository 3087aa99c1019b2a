package viz

import "github.com/charmbracelet/lipgloss"

type styles struct {
	canvas lipgloss.Style
	panel  lipgloss.Style
	header lipgloss.Style
	label  lipgloss.Style
	value  lipgloss.Style
	atoms  lipgloss.Style
	graph  lipgloss.Style
	warn   lipgloss.Style
	help   lipgloss.Style
}

func newStyles(th Theme) styles {
	return styles{
		canvas: lipgloss.NewStyle().Padding(1, 2),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(th.Muted).
			Padding(1, 2).
			Width(48),
		header: lipgloss.NewStyle().Foreground(th.Accent).Bold(true).MarginBottom(1),
		label:  lipgloss.NewStyle().Foreground(th.Muted).Width(13),
		value:  lipgloss.NewStyle().Foreground(th.Text),
		atoms:  lipgloss.NewStyle().Foreground(th.Atoms),
		graph:  lipgloss.NewStyle().Foreground(th.Accent).Padding(1, 0),
		warn:   lipgloss.NewStyle().Foreground(th.Warning).Bold(true),
		help:   lipgloss.NewStyle().Foreground(th.Muted).MarginTop(1),
	}
}
