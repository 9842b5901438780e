package components

import (
	"strings"
	"time"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

const (
	winnerBeats    = 3
	winnerInterval = 500 * time.Millisecond
)

// Winner builds suspense with a drumroll before naming the winner. The
// advance key skips the drumroll; once the winner is shown it passes
// through to the sequence.
type Winner struct {
	env      Env
	title    string
	winner   string
	runnerUp []string
	reveal   *stagger
	closed   bool
}

func newWinner(ref sequencer.ViewRef, env Env) Slide {
	w := &Winner{
		env:      env,
		title:    ref.Param("title", "AND THE WINNER IS"),
		winner:   ref.Param("winner", "?"),
		runnerUp: splitItems(ref.Param("items", "")),
	}
	w.reveal = &stagger{
		sched:    env.Scheduler,
		interval: winnerInterval,
		total:    winnerBeats + 1,
		onShow: func(shown int) {
			if shown > winnerBeats {
				w.env.playSelect()
			}
		},
	}
	w.reveal.start()
	return w
}

// Revealed reports whether the winner is on screen.
func (w *Winner) Revealed() bool {
	return w.reveal.done()
}

// HandleKey implements Slide.
func (w *Winner) HandleKey(key string) bool {
	if w.closed || w.reveal.done() {
		return false
	}
	if key == w.env.AdvanceKey || key == "enter" {
		w.reveal.finish()
		return true
	}
	return false
}

// HandleClick implements Slide.
func (w *Winner) HandleClick(int, int) bool {
	if w.closed || w.reveal.done() {
		return false
	}
	w.reveal.finish()
	return true
}

// View implements Slide.
func (w *Winner) View(st styles.Styles, width int) string {
	lines := []string{st.Title.Render(w.title), ""}
	if !w.reveal.done() {
		beats := w.reveal.shown
		lines = append(lines, st.Accent.Render(strings.Repeat(". ", beats+1)))
		return centerLines(width, lines...)
	}

	lines = append(lines, st.Panel.Render(st.Highlight.Render(w.winner)))
	if len(w.runnerUp) > 0 {
		lines = append(lines, "", st.Muted.Render("FOLLOWED BY"))
		for _, name := range w.runnerUp {
			lines = append(lines, st.Text.Render(name))
		}
	}
	lines = append(lines, "", st.Muted.Render("PRESS "+keyLabel(w.env.AdvanceKey)+" TO CONTINUE"))
	return centerLines(width, lines...)
}

// Close implements Slide.
func (w *Winner) Close() {
	if w.closed {
		return
	}
	w.closed = true
	w.reveal.stop()
}
