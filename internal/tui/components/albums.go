package components

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

const (
	defaultAlbumHold = 2 * time.Second
	albumCardWidth   = 22
	albumCardGap     = 2
)

// Albums hides a row of cards that the viewer turns over by number or by
// clicking. Once every card is showing it completes after a short hold.
type Albums struct {
	env      Env
	title    string
	items    []string
	revealed []bool
	hold     time.Duration
	timer    sequencer.TimerID
	holding  bool
	closed   bool
}

func newAlbums(ref sequencer.ViewRef, env Env) Slide {
	items := splitItems(ref.Param("items", ""))
	hold := defaultAlbumHold
	if parsed, err := time.ParseDuration(ref.Param("hold", "")); err == nil && parsed >= 0 {
		hold = parsed
	}
	a := &Albums{
		env:      env,
		title:    ref.Param("title", ""),
		items:    items,
		revealed: make([]bool, len(items)),
		hold:     hold,
	}
	if len(items) == 0 {
		a.complete()
	}
	return a
}

// Revealed reports whether card i is face up.
func (a *Albums) Revealed(i int) bool {
	return i >= 0 && i < len(a.revealed) && a.revealed[i]
}

// HandleKey implements Slide.
func (a *Albums) HandleKey(key string) bool {
	if a.closed {
		return false
	}
	idx, ok := digitIndex(key, len(a.items))
	if !ok {
		return false
	}
	a.flip(idx)
	return true
}

// HandleClick implements Slide. Cards sit in one row under the title.
func (a *Albums) HandleClick(x, _ int) bool {
	if a.closed || x < 0 {
		return false
	}
	idx := x / (albumCardWidth + albumCardGap)
	if idx >= len(a.items) || x%(albumCardWidth+albumCardGap) >= albumCardWidth {
		return false
	}
	a.flip(idx)
	return true
}

func (a *Albums) flip(idx int) {
	if a.revealed[idx] {
		return
	}
	a.revealed[idx] = true
	a.env.playSelect()

	for _, shown := range a.revealed {
		if !shown {
			return
		}
	}
	a.complete()
}

func (a *Albums) complete() {
	if a.env.Scheduler == nil {
		a.env.Done("")
		return
	}
	a.holding = true
	a.timer = a.env.Scheduler.Schedule(a.hold, func() {
		a.holding = false
		if !a.closed {
			a.env.Done("")
		}
	})
}

// View implements Slide.
func (a *Albums) View(st styles.Styles, width int) string {
	cards := make([]string, 0, len(a.items)*2)
	for i, item := range a.items {
		if i > 0 {
			cards = append(cards, lipgloss.NewStyle().Width(albumCardGap).Render(""))
		}
		cards = append(cards, a.card(st, i, item))
	}
	row := lipgloss.JoinHorizontal(lipgloss.Top, cards...)

	hint := fmt.Sprintf("PRESS 1-%d OR CLICK TO REVEAL", len(a.items))
	if a.holding {
		hint = ""
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.PlaceHorizontal(lipgloss.Width(row), lipgloss.Center, st.Title.Render(a.title)),
		"",
		row,
		"",
		lipgloss.PlaceHorizontal(lipgloss.Width(row), lipgloss.Center, st.Muted.Render(hint)),
	)
}

func (a *Albums) card(st styles.Styles, i int, item string) string {
	body := st.Muted.Render(fmt.Sprintf("#%d\n\n?", i+1))
	if a.revealed[i] {
		body = st.Muted.Render(fmt.Sprintf("#%d", i+1)) + "\n\n" + st.Highlight.Render(item)
	}
	return st.Panel.
		Width(albumCardWidth - 2).
		Padding(1, 1).
		Align(lipgloss.Center).
		Render(body)
}

// Close implements Slide.
func (a *Albums) Close() {
	if a.closed {
		return
	}
	a.closed = true
	if a.holding {
		a.env.Scheduler.Cancel(a.timer)
		a.holding = false
	}
}
