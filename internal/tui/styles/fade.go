package styles

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Fade blends from toward to by t in [0,1]. Unparseable colors return to
// as is.
func Fade(from, to string, t float64) lipgloss.Color {
	t = clamp01(t)
	switch t {
	case 0:
		return lipgloss.Color(from)
	case 1:
		return lipgloss.Color(to)
	}
	a, err := colorful.Hex(from)
	if err != nil {
		return lipgloss.Color(to)
	}
	b, err := colorful.Hex(to)
	if err != nil {
		return lipgloss.Color(to)
	}
	return lipgloss.Color(a.BlendLab(b, t).Clamped().Hex())
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
