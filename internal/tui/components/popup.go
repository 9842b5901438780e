package components

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"

	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

const popupMaxWidth = 72

// Popup shows a markdown document over the landing screen.
type Popup struct {
	Title    string
	Markdown string

	width    int
	rendered string
}

// NewPopup creates a popup for a markdown body.
func NewPopup(title, markdown string) *Popup {
	return &Popup{Title: title, Markdown: markdown}
}

// View renders the popup framed within width.
func (p *Popup) View(st styles.Styles, width int) string {
	inner := min(width, popupMaxWidth) - 8
	if inner < 20 {
		inner = 20
	}
	body := p.body(inner)

	lines := []string{st.Title.Render(p.Title), body, st.Muted.Render("ESC TO CLOSE")}
	return st.Panel.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (p *Popup) body(width int) string {
	if p.width == width && p.rendered != "" {
		return p.rendered
	}
	p.width = width
	p.rendered = renderMarkdown(p.Markdown, width)
	return p.rendered
}

func renderMarkdown(markdown string, width int) string {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return markdown
	}
	out, err := renderer.Render(markdown)
	if err != nil {
		return markdown
	}
	return strings.Trim(out, "\n")
}
