package sequencer

import (
	"sort"
	"time"
)

// TimerID identifies a scheduled callback.
type TimerID uint64

// Scheduler is the single timing primitive the Sequencer relies on.
// Callbacks must run on the same goroutine that calls the Sequencer and
// must never run synchronously from Schedule.
type Scheduler interface {
	Now() time.Time
	Schedule(d time.Duration, fn func()) TimerID
	Cancel(id TimerID)
}

// ManualScheduler is a virtual-clock Scheduler. Nothing fires until
// Advance or Drain is called. It is not safe for concurrent use.
type ManualScheduler struct {
	now    time.Time
	nextID TimerID
	timers map[TimerID]*manualTimer
}

type manualTimer struct {
	id  TimerID
	due time.Time
	fn  func()
}

// NewManualScheduler returns a scheduler whose clock starts at start.
func NewManualScheduler(start time.Time) *ManualScheduler {
	return &ManualScheduler{
		now:    start,
		timers: make(map[TimerID]*manualTimer),
	}
}

// Now returns the virtual time.
func (m *ManualScheduler) Now() time.Time {
	return m.now
}

// Schedule registers fn to run d after the current virtual time.
func (m *ManualScheduler) Schedule(d time.Duration, fn func()) TimerID {
	if d < 0 {
		d = 0
	}
	m.nextID++
	m.timers[m.nextID] = &manualTimer{id: m.nextID, due: m.now.Add(d), fn: fn}
	return m.nextID
}

// Cancel drops a pending timer. Unknown ids are ignored.
func (m *ManualScheduler) Cancel(id TimerID) {
	delete(m.timers, id)
}

// Pending reports how many timers are waiting.
func (m *ManualScheduler) Pending() int {
	return len(m.timers)
}

// NextDue returns the due time of the earliest pending timer.
func (m *ManualScheduler) NextDue() (time.Time, bool) {
	next := m.earliest()
	if next == nil {
		return time.Time{}, false
	}
	return next.due, true
}

// Advance moves the clock forward by d, firing every timer that comes due
// on the way in due order, including timers scheduled by those callbacks.
// It returns the number of callbacks fired.
func (m *ManualScheduler) Advance(d time.Duration) int {
	target := m.now.Add(d)
	fired := 0
	for {
		next := m.earliest()
		if next == nil || next.due.After(target) {
			break
		}
		m.fire(next)
		fired++
	}
	m.now = target
	return fired
}

// Drain fires pending timers in due order until none remain or max
// callbacks have run. It returns the number fired.
func (m *ManualScheduler) Drain(max int) int {
	fired := 0
	for fired < max {
		next := m.earliest()
		if next == nil {
			break
		}
		m.fire(next)
		fired++
	}
	return fired
}

func (m *ManualScheduler) fire(t *manualTimer) {
	delete(m.timers, t.id)
	if t.due.After(m.now) {
		m.now = t.due
	}
	t.fn()
}

func (m *ManualScheduler) earliest() *manualTimer {
	if len(m.timers) == 0 {
		return nil
	}
	pending := make([]*manualTimer, 0, len(m.timers))
	for _, t := range m.timers {
		pending = append(pending, t)
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].due.Equal(pending[j].due) {
			return pending[i].id < pending[j].id
		}
		return pending[i].due.Before(pending[j].due)
	})
	return pending[0]
}
