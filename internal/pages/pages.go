// Package pages loads and renders the markdown pages shown in the
// player's popups.
package pages

// Names of the pages the landing screen opens.
const (
	About   = "about"
	Contact = "contact"
)

// Page is a markdown page with template variables.
type Page struct {
	Name        string    `yaml:"name"`
	Title       string    `yaml:"title"`
	Description string    `yaml:"description"`
	Body        string    `yaml:"body"`
	Variables   []PageVar `yaml:"variables,omitempty"`
	Source      string    `yaml:"-"` // file path or "builtin"
}

// PageVar describes a variable used in a page body.
type PageVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}
