package components

import (
	"fmt"
	"strings"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

// EmptyState is a centered notice with optional key hints.
type EmptyState struct {
	Title    string
	Subtitle string
	Hints    []KeyHint
}

// Render renders the notice centered within width.
func (e EmptyState) Render(st styles.Styles, width int) string {
	lines := []string{st.Warning.Render(e.Title)}
	if e.Subtitle != "" {
		lines = append(lines, st.Muted.Render(e.Subtitle))
	}
	if bar := RenderHintBar(st, e.Hints); bar != "" {
		lines = append(lines, "", bar)
	}
	return centerLines(width, lines...)
}

// TooSmall is shown while the terminal is below the minimum size.
func TooSmall(width, height, minWidth, minHeight int) EmptyState {
	return EmptyState{
		Title:    "TERMINAL TOO SMALL",
		Subtitle: fmt.Sprintf("RESIZE TO AT LEAST %dx%d (NOW %dx%d)", minWidth, minHeight, width, height),
		Hints:    []KeyHint{{Key: "q", Label: "QUIT", Enabled: true}},
	}
}

// Fallback stands in for a view that cannot be shown: an unregistered
// name, or parameters the slide cannot work with. The advance key
// completes it so the sequence cannot stall.
type Fallback struct {
	env    Env
	name   string
	reason string
	closed bool
}

// NewFallback builds the stand-in slide for an unregistered view.
func NewFallback(ref sequencer.ViewRef, env Env) Slide {
	return newFallback(ref, env, "THIS DECK USES A VIEW THIS PLAYER DOES NOT HAVE")
}

func newFallback(ref sequencer.ViewRef, env Env, reason string) *Fallback {
	return &Fallback{env: env.withDefaults(), name: strings.ToUpper(ref.Name), reason: reason}
}

// HandleKey implements Slide.
func (f *Fallback) HandleKey(key string) bool {
	if f.closed || key != f.env.AdvanceKey {
		return false
	}
	f.env.Done("")
	return true
}

// HandleClick implements Slide.
func (f *Fallback) HandleClick(int, int) bool { return false }

// View implements Slide.
func (f *Fallback) View(st styles.Styles, width int) string {
	return EmptyState{
		Title:    "NOTHING TO SHOW FOR " + f.name,
		Subtitle: f.reason,
		Hints:    []KeyHint{{Key: f.env.AdvanceKey, Label: "SKIP", Enabled: true}},
	}.Render(st, width)
}

// Close implements Slide.
func (f *Fallback) Close() {
	f.closed = true
}
