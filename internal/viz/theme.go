package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Atoms   lipgloss.Color
	Cold    lipgloss.Color
	Hot     lipgloss.Color
	Warning lipgloss.Color
}

var Themes = []Theme{
	{
		Name:    "lab",
		Accent:  lipgloss.Color("86"),
		Text:    lipgloss.Color("252"),
		Muted:   lipgloss.Color("242"),
		Atoms:   lipgloss.Color("117"),
		Cold:    lipgloss.Color("39"),
		Hot:     lipgloss.Color("203"),
		Warning: lipgloss.Color("214"),
	},
	{
		Name:    "retro",
		Accent:  lipgloss.Color("#00ff00"),
		Text:    lipgloss.Color("#00cc00"),
		Muted:   lipgloss.Color("#005500"),
		Atoms:   lipgloss.Color("#88ff88"),
		Cold:    lipgloss.Color("#00aa00"),
		Hot:     lipgloss.Color("#ffff00"),
		Warning: lipgloss.Color("#ff0000"),
	},
	{
		Name:    "minimal",
		Accent:  lipgloss.Color("#ffffff"),
		Text:    lipgloss.Color("#cccccc"),
		Muted:   lipgloss.Color("#888888"),
		Atoms:   lipgloss.Color("#ffffff"),
		Cold:    lipgloss.Color("#0088ff"),
		Hot:     lipgloss.Color("#ff4444"),
		Warning: lipgloss.Color("#ffaa00"),
	},
}

// ThemeByName falls back to the first theme for unknown names.
func ThemeByName(name string) (Theme, int) {
	for i, t := range Themes {
		if t.Name == name {
			return t, i
		}
	}
	return Themes[0], 0
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
