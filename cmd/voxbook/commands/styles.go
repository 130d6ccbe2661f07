package commands

import "github.com/charmbracelet/lipgloss"

var (
	colorGreen  = lipgloss.Color("#00FF00")
	colorYellow = lipgloss.Color("#FFFF00")
	colorRed    = lipgloss.Color("#FF0000")
	colorGray   = lipgloss.Color("#666666")
	colorCyan   = lipgloss.Color("#00FFFF")
)

var (
	recordedStyle = lipgloss.NewStyle().Foreground(colorGreen)
	pendingStyle  = lipgloss.NewStyle().Foreground(colorGray)
	recDotStyle   = lipgloss.NewStyle().Foreground(colorRed).Bold(true)
	promptStyle   = lipgloss.NewStyle().Foreground(colorCyan)

	levelGreenStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	levelYellowStyle = lipgloss.NewStyle().Foreground(colorYellow)
	levelGrayStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// renderLevelBar renders a fixed-width meter for a level in [0, 1].
func renderLevelBar(level float64) string {
	const barLen = 24
	filled := int(level * barLen)
	if filled > barLen {
		filled = barLen
	}

	var bar string
	for i := 0; i < barLen; i++ {
		if i < filled {
			if float64(i)/barLen > 0.7 {
				bar += levelYellowStyle.Render("█")
			} else {
				bar += levelGreenStyle.Render("█")
			}
		} else {
			bar += levelGrayStyle.Render("░")
		}
	}
	return bar
}
