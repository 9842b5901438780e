package components

import (
	"time"

	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// stagger shows total items one interval apart on the scheduler. Without
// a scheduler everything is shown at once.
type stagger struct {
	sched    sequencer.Scheduler
	interval time.Duration
	total    int
	shown    int
	timer    sequencer.TimerID
	pending  bool
	onShow   func(shown int)
}

func (s *stagger) start() {
	if s.total <= 0 {
		return
	}
	if s.sched == nil {
		s.finish()
		return
	}
	s.schedule()
}

func (s *stagger) schedule() {
	s.pending = true
	s.timer = s.sched.Schedule(s.interval, s.tick)
}

func (s *stagger) tick() {
	s.pending = false
	s.shown++
	if s.onShow != nil {
		s.onShow(s.shown)
	}
	if s.shown < s.total {
		s.schedule()
	}
}

// finish jumps to the end, firing onShow once for the final count.
func (s *stagger) finish() {
	s.stop()
	if s.shown >= s.total {
		return
	}
	s.shown = s.total
	if s.onShow != nil {
		s.onShow(s.shown)
	}
}

func (s *stagger) stop() {
	if s.pending {
		s.sched.Cancel(s.timer)
		s.pending = false
	}
}

func (s *stagger) done() bool {
	return s.shown >= s.total
}
