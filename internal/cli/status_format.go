package cli

import (
	"fmt"
	"strings"

	"github.com/retrowrapped/wrapped/internal/models"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorCyan   = "\033[36m"
)

func formatPlayStatus(play *models.PlaySummary) string {
	label, color := statusLabelForPlay(play)
	return colorize(formatStatusLabel(label, string(play.Mode)), color)
}

func statusLabelForPlay(play *models.PlaySummary) (string, string) {
	switch {
	case !play.Finished():
		return "OPEN", colorCyan
	case play.Completed:
		return "DONE", colorGreen
	default:
		return "STOP", colorYellow
	}
}

func colorize(text, color string) string {
	if color == "" || IsJSONOutput() || !hasTTY() {
		return text
	}
	return color + text + colorReset
}

func formatStatusLabel(label, status string) string {
	normalized := strings.TrimSpace(status)
	if normalized != "" {
		normalized = strings.ReplaceAll(normalized, "_", " ")
	}
	if normalized == "" {
		return label
	}
	return fmt.Sprintf("%s %s", label, normalized)
}
