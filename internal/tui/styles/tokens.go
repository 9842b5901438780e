// Package styles holds the slideshow palettes and their lipgloss styles.
package styles

import "strings"

// ThemeTokens defines the semantic color roles for the TUI.
type ThemeTokens struct {
	Background string
	Panel      string
	Text       string
	TextMuted  string
	Border     string
	Accent     string
	AccentDim  string
	Highlight  string
	Warning    string
	Error      string
}

// Theme bundles a palette with a name.
type Theme struct {
	Name   string
	Tokens ThemeTokens
}

// RetroTheme is the green-on-navy terminal look.
var RetroTheme = Theme{
	Name: "retro",
	Tokens: ThemeTokens{
		Background: "#000412",
		Panel:      "#0F2331",
		Text:       "#2FFD2F",
		TextMuted:  "#1C5860",
		Border:     "#066A73",
		Accent:     "#2FFD2F",
		AccentDim:  "#066A73",
		Highlight:  "#F5F749",
		Warning:    "#FFB000",
		Error:      "#FF4040",
	},
}

// MonoTheme stays within greys for terminals without truecolor.
var MonoTheme = Theme{
	Name: "mono",
	Tokens: ThemeTokens{
		Background: "#000000",
		Panel:      "#1A1A1A",
		Text:       "#E0E0E0",
		TextMuted:  "#707070",
		Border:     "#505050",
		Accent:     "#FFFFFF",
		AccentDim:  "#909090",
		Highlight:  "#FFFFFF",
		Warning:    "#C0C0C0",
		Error:      "#FFFFFF",
	},
}

// HighContrastTheme favors visibility on low-contrast terminals.
var HighContrastTheme = Theme{
	Name: "high-contrast",
	Tokens: ThemeTokens{
		Background: "#000000",
		Panel:      "#0A0A0A",
		Text:       "#FFFFFF",
		TextMuted:  "#C0C0C0",
		Border:     "#FFFFFF",
		Accent:     "#00FF5A",
		AccentDim:  "#00A2FF",
		Highlight:  "#FFD400",
		Warning:    "#FFB000",
		Error:      "#FF4040",
	},
}

// Themes lists available palettes by name.
var Themes = map[string]Theme{
	"retro":         RetroTheme,
	"mono":          MonoTheme,
	"high-contrast": HighContrastTheme,
}

// Lookup returns the named theme, falling back to RetroTheme.
func Lookup(name string) Theme {
	if theme, ok := Themes[strings.ToLower(strings.TrimSpace(name))]; ok {
		return theme
	}
	return RetroTheme
}
