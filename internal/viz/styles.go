package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	sparkHigh = lipgloss.NewStyle().Foreground(lipgloss.Color("#f7768e"))
	sparkMid  = lipgloss.NewStyle().Foreground(lipgloss.Color("#e0af68"))
	sparkLow  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9ece6a"))
)

// RatioBar renders ratio in [0, 1] as a bar of width cells. Values above 0.8
// are drawn hot, which for speed over escape velocity means nearly unbound.
func RatioBar(ratio float64, width int) string {
	if width <= 0 {
		return ""
	}
	filled := int(ratio * float64(width))
	filled = max(0, min(width, filled))

	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	switch {
	case ratio > 0.8:
		return sparkHigh.Render(bar)
	case ratio > 0.4:
		return sparkMid.Render(bar)
	}
	return sparkLow.Render(bar)
}

func Separator(width int, style lipgloss.Style) string {
	if width < 8 {
		return style.Render(strings.Repeat("─", max(width, 0)))
	}
	mid := width / 2
	return style.Render(strings.Repeat("─", mid-2) + " ◆ " + strings.Repeat("─", width-mid-1))
}
