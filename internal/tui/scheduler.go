package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// timerMsg is delivered when a scheduled callback is due.
type timerMsg struct {
	id sequencer.TimerID
}

// teaScheduler runs sequencer callbacks on the bubbletea update loop.
// Schedule queues a tea.Tick; the callback runs when its timerMsg comes
// back through Update, so every callback shares the loop's thread.
type teaScheduler struct {
	now     func() time.Time
	nextID  sequencer.TimerID
	pending map[sequencer.TimerID]func()
	queued  []tea.Cmd
}

func newTeaScheduler() *teaScheduler {
	return &teaScheduler{
		now:     time.Now,
		pending: make(map[sequencer.TimerID]func()),
	}
}

// Now implements sequencer.Scheduler.
func (s *teaScheduler) Now() time.Time {
	return s.now()
}

// Schedule implements sequencer.Scheduler.
func (s *teaScheduler) Schedule(d time.Duration, fn func()) sequencer.TimerID {
	s.nextID++
	id := s.nextID
	s.pending[id] = fn
	s.queued = append(s.queued, tea.Tick(d, func(time.Time) tea.Msg {
		return timerMsg{id: id}
	}))
	return id
}

// Cancel implements sequencer.Scheduler. The tick still arrives but
// finds nothing to run.
func (s *teaScheduler) Cancel(id sequencer.TimerID) {
	delete(s.pending, id)
}

// Pending returns the number of live callbacks.
func (s *teaScheduler) Pending() int {
	return len(s.pending)
}

func (s *teaScheduler) fire(id sequencer.TimerID) {
	fn, ok := s.pending[id]
	if !ok {
		return
	}
	delete(s.pending, id)
	fn()
}

// drain hands the ticks queued since the last call to bubbletea.
func (s *teaScheduler) drain() tea.Cmd {
	if len(s.queued) == 0 {
		return nil
	}
	cmds := s.queued
	s.queued = nil
	return tea.Batch(cmds...)
}

// reset drops every pending callback.
func (s *teaScheduler) reset() {
	clear(s.pending)
	s.queued = nil
}
