package components

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// centerLines centers each line within width and joins them.
func centerLines(width int, lines ...string) string {
	block := strings.Join(lines, "\n")
	if width <= 0 {
		return block
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(block)
}

// colorOf returns a style's foreground as a color string, or fallback.
func colorOf(style lipgloss.Style, fallback string) string {
	if color, ok := style.GetForeground().(lipgloss.Color); ok {
		return string(color)
	}
	return fallback
}
