// Package sequences provides loading and rendering of slideshow decks.
package sequences

// Sequence represents a deck: an ordered list of message and view steps.
type Sequence struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []SequenceStep `yaml:"steps"`
	Variables   []SequenceVar  `yaml:"variables,omitempty"`
	Tags        []string       `yaml:"tags,omitempty"`
	Source      string         `yaml:"-"` // file path or "builtin"
}

// SequenceStep represents a single step in a deck.
type SequenceStep struct {
	ID       string            `yaml:"id"`
	Type     StepType          `yaml:"type"`
	Text     string            `yaml:"text,omitempty"`
	Message  string            `yaml:"message,omitempty"`
	View     string            `yaml:"view,omitempty"`
	Params   map[string]string `yaml:"params,omitempty"`
	Advance  string            `yaml:"advance,omitempty"`
	After    string            `yaml:"after,omitempty"`
	Skip     bool              `yaml:"skippable,omitempty"`
	Next     string            `yaml:"next,omitempty"`
	Branches map[string]string `yaml:"branches,omitempty"`
}

// SequenceVar describes a variable used in a deck.
type SequenceVar struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Default     string `yaml:"default,omitempty"`
	Required    bool   `yaml:"required"`
}

// StepType defines the kind of deck step.
type StepType string

const (
	StepTypeMessage StepType = "message"
	StepTypeView    StepType = "view"
)
