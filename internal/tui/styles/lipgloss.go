package styles

import "github.com/charmbracelet/lipgloss"

// Styles contains lipgloss styles derived from theme tokens.
type Styles struct {
	Theme     Theme
	Alpha     float64
	Title     lipgloss.Style
	Text      lipgloss.Style
	Muted     lipgloss.Style
	Accent    lipgloss.Style
	Highlight lipgloss.Style
	Panel     lipgloss.Style
	Border    lipgloss.Style
	Selected  lipgloss.Style
	Warning   lipgloss.Style
	Error     lipgloss.Style
	Key       lipgloss.Style
}

// DefaultStyles builds styles from the retro theme.
func DefaultStyles() Styles {
	return BuildStyles(RetroTheme)
}

// BuildStyles converts theme tokens into fully opaque lipgloss styles.
func BuildStyles(theme Theme) Styles {
	return buildStyles(theme, 1)
}

// WithAlpha rebuilds the styles with every foreground blended toward the
// background. alpha 0 is invisible, 1 is the plain theme.
func (s Styles) WithAlpha(alpha float64) Styles {
	return buildStyles(s.Theme, clamp01(alpha))
}

func buildStyles(theme Theme, alpha float64) Styles {
	tokens := theme.Tokens
	fg := func(color string) lipgloss.Color {
		return Fade(tokens.Background, color, alpha)
	}

	return Styles{
		Theme:     theme,
		Alpha:     alpha,
		Title:     lipgloss.NewStyle().Foreground(fg(tokens.Accent)).Bold(true),
		Text:      lipgloss.NewStyle().Foreground(fg(tokens.Text)),
		Muted:     lipgloss.NewStyle().Foreground(fg(tokens.TextMuted)),
		Accent:    lipgloss.NewStyle().Foreground(fg(tokens.Accent)),
		Highlight: lipgloss.NewStyle().Foreground(fg(tokens.Highlight)).Bold(true),
		Panel:     lipgloss.NewStyle().Foreground(fg(tokens.Text)).BorderStyle(lipgloss.RoundedBorder()).BorderForeground(fg(tokens.Border)).Padding(1, 3),
		Border:    lipgloss.NewStyle().Foreground(fg(tokens.Border)),
		Selected:  lipgloss.NewStyle().Foreground(fg(tokens.Background)).Background(fg(tokens.Accent)).Bold(true),
		Warning:   lipgloss.NewStyle().Foreground(fg(tokens.Warning)),
		Error:     lipgloss.NewStyle().Foreground(fg(tokens.Error)),
		Key:       lipgloss.NewStyle().Foreground(fg(tokens.AccentDim)).Bold(true),
	}
}
