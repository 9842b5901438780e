package components

import (
	"fmt"
	"strings"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

// Quiz results reported through Env.Done.
const (
	ResultCorrect   = "correct"
	ResultIncorrect = "incorrect"
)

// Quiz asks one multiple-choice question. Picking a choice and pressing
// the advance key reports ResultCorrect or ResultIncorrect.
type Quiz struct {
	env      Env
	question string
	choices  []string
	answer   string
	selected int
	answered bool
	closed   bool
}

func newQuiz(ref sequencer.ViewRef, env Env) Slide {
	choices := splitItems(ref.Param("choices", ""))
	if len(choices) == 0 {
		env.Logger.Warn().Str("view", ref.Name).Msg("quiz has no choices, using fallback")
		return newFallback(ref, env, "THIS QUIZ HAS NO CHOICES")
	}
	return &Quiz{
		env:      env,
		question: ref.Param("question", "?"),
		choices:  choices,
		answer:   strings.TrimSpace(ref.Param("answer", "")),
		selected: -1,
	}
}

// Selected returns the highlighted choice index, or -1.
func (q *Quiz) Selected() int {
	return q.selected
}

// HandleKey implements Slide. Every key is consumed until answered so
// the advance key never reaches the sequence directly.
func (q *Quiz) HandleKey(key string) bool {
	if q.closed || q.answered {
		return !q.closed
	}

	switch key {
	case "up", "left", "k", "h":
		q.move(-1)
	case "down", "right", "j", "l", "tab":
		q.move(1)
	case q.env.AdvanceKey, "enter":
		if q.selected >= 0 {
			q.answered = true
			q.env.Done(q.result())
		}
	default:
		if idx, ok := digitIndex(key, len(q.choices)); ok {
			q.pick(idx)
		} else if idx, ok := letterIndex(key, len(q.choices)); ok {
			q.pick(idx)
		}
	}
	return true
}

// HandleClick implements Slide. Choices sit one per row below the
// question and a blank line.
func (q *Quiz) HandleClick(_, y int) bool {
	if q.closed || q.answered {
		return false
	}
	idx := y - 2
	if idx < 0 || idx >= len(q.choices) {
		return false
	}
	q.pick(idx)
	return true
}

func (q *Quiz) move(delta int) {
	if len(q.choices) == 0 {
		return
	}
	next := q.selected + delta
	if q.selected < 0 {
		next = 0
	}
	next = (next + len(q.choices)) % len(q.choices)
	q.pick(next)
}

func (q *Quiz) pick(idx int) {
	if idx == q.selected {
		return
	}
	q.selected = idx
	q.env.playSelect()
}

func (q *Quiz) result() string {
	if strings.EqualFold(strings.TrimSpace(q.choices[q.selected]), q.answer) {
		return ResultCorrect
	}
	return ResultIncorrect
}

// View implements Slide.
func (q *Quiz) View(st styles.Styles, width int) string {
	lines := []string{st.Title.Render(q.question), ""}
	for i, choice := range q.choices {
		label := fmt.Sprintf(" %d. %s ", i+1, choice)
		if i == q.selected {
			lines = append(lines, st.Selected.Render(label))
		} else {
			lines = append(lines, st.Text.Render(label))
		}
	}
	lines = append(lines, "")
	if q.selected < 0 {
		lines = append(lines, st.Muted.Render(fmt.Sprintf("PICK WITH 1-%d OR THE ARROWS", len(q.choices))))
	} else {
		lines = append(lines, st.Muted.Render("PRESS "+keyLabel(q.env.AdvanceKey)+" TO LOCK IT IN"))
	}
	return centerLines(width, lines...)
}

// Close implements Slide.
func (q *Quiz) Close() {
	q.closed = true
}

func letterIndex(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < 'a' || key[0] > 'z' {
		return 0, false
	}
	idx := int(key[0] - 'a')
	return idx, idx < n
}

func keyLabel(key string) string {
	return strings.ToUpper(key)
}
