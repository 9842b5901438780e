package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

const listInterval = 250 * time.Millisecond

// List counts down a ranked list, one row at a time.
type List struct {
	env    Env
	title  string
	items  []string
	rows   *stagger
	closed bool
}

func newList(ref sequencer.ViewRef, env Env) Slide {
	l := &List{
		env:   env,
		title: ref.Param("title", ""),
		items: splitItems(ref.Param("items", "")),
	}
	l.rows = &stagger{sched: env.Scheduler, interval: listInterval, total: len(l.items)}
	l.rows.start()
	return l
}

// Shown returns how many rows are visible.
func (l *List) Shown() int {
	return l.rows.shown
}

// HandleKey implements Slide. The advance key first completes the list.
func (l *List) HandleKey(key string) bool {
	if l.closed || l.rows.done() {
		return false
	}
	if key == l.env.AdvanceKey {
		l.rows.finish()
		return true
	}
	return false
}

// HandleClick implements Slide.
func (l *List) HandleClick(int, int) bool { return false }

// View implements Slide.
func (l *List) View(st styles.Styles, width int) string {
	rows := make([]string, 0, len(l.items))
	for i := 0; i < l.rows.shown && i < len(l.items); i++ {
		rank := st.Accent.Render(fmt.Sprintf("%02d", i+1))
		rows = append(rows, rank+"  "+st.Text.Render(l.items[i]))
	}
	body := lipgloss.JoinVertical(lipgloss.Left, rows...)

	lines := []string{st.Title.Render(l.title), "", body}
	if l.rows.done() {
		lines = append(lines, "", st.Muted.Render("PRESS "+keyLabel(l.env.AdvanceKey)+" TO CONTINUE"))
	}
	return centerLines(width, lines...)
}

// Close implements Slide.
func (l *List) Close() {
	if l.closed {
		return
	}
	l.closed = true
	l.rows.stop()
}
