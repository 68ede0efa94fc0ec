package viz

import "github.com/charmbracelet/lipgloss"

type Theme struct {
	Name    string
	Primary lipgloss.Color // canvas and headers
	Accent  lipgloss.Color // selected body
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Warning lipgloss.Color
}

var (
	ThemeDeepSpace = Theme{
		Name:    "deep-space",
		Primary: lipgloss.Color("#7aa2f7"),
		Accent:  lipgloss.Color("#ff9e64"),
		Text:    lipgloss.Color("#c0caf5"),
		Muted:   lipgloss.Color("#565f89"),
		Warning: lipgloss.Color("#f7768e"),
	}

	ThemeRetroGreen = Theme{
		Name:    "retro",
		Primary: lipgloss.Color("#00ff00"),
		Accent:  lipgloss.Color("#88ff88"),
		Text:    lipgloss.Color("#00ff00"),
		Muted:   lipgloss.Color("#005500"),
		Warning: lipgloss.Color("#ffff00"),
	}

	ThemeMinimal = Theme{
		Name:    "minimal",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#0088ff"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#888888"),
		Warning: lipgloss.Color("#ffaa00"),
	}

	Themes = []Theme{ThemeDeepSpace, ThemeRetroGreen, ThemeMinimal}
)

// GetTheme falls back to the first theme for unknown names.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}

func nextTheme(current Theme) Theme {
	for i, t := range Themes {
		if t.Name == current.Name {
			return Themes[(i+1)%len(Themes)]
		}
	}
	return Themes[0]
}

// styles derived from a theme
type palette struct {
	canvas, header, label, value, selected, muted, warning, panel lipgloss.Style
}

func newPalette(t Theme) palette {
	return palette{
		canvas:   lipgloss.NewStyle().Foreground(t.Primary).Padding(1, 2),
		header:   lipgloss.NewStyle().Foreground(t.Primary).Bold(true).MarginBottom(1),
		label:    lipgloss.NewStyle().Foreground(t.Muted).Width(10),
		value:    lipgloss.NewStyle().Foreground(t.Text),
		selected: lipgloss.NewStyle().Foreground(t.Accent).Bold(true),
		muted:    lipgloss.NewStyle().Foreground(t.Muted),
		warning:  lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		panel: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder(), false, false, false, true).
			BorderForeground(t.Muted).
			Padding(1, 2).
			Width(44),
	}
}
