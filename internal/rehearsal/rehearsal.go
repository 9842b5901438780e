// Package rehearsal plays a deck headlessly on the manual scheduler and
// reports what a viewer would have seen, and when.
package rehearsal

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/retrowrapped/wrapped/internal/logging"
	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// Rehearsal errors.
var (
	ErrStepLimit = errors.New("rehearsal exceeded step limit")
	ErrStalled   = errors.New("rehearsal stalled")
)

// DefaultMaxSteps bounds a rehearsal when Config.MaxSteps is zero.
const DefaultMaxSteps = 200

// Config controls a rehearsal.
type Config struct {
	// Timing defaults to sequencer.DefaultTiming.
	Timing sequencer.Timing

	// AdvanceKey is pressed on input steps. Defaults to space.
	AdvanceKey string

	// Results maps a step id or view name to the result its view reports
	// on completion. Step ids take precedence. Views without an entry
	// complete with no result.
	Results map[string]string

	// MaxSteps is the most steps a rehearsal may enter, so decks whose
	// branches loop still terminate. Entering one more stops the run.
	MaxSteps int

	// Observer, when set, also receives every transition.
	Observer sequencer.Observer

	// Start is the virtual clock origin. Defaults to the Unix epoch.
	Start time.Time
}

// Entry is one line of a rehearsal timeline.
type Entry struct {
	Offset   time.Duration
	Kind     sequencer.TransitionKind
	StepID   string
	StepKind sequencer.StepKind
	Index    int

	// Detail is the view name for entered view steps and the signal that
	// caused an exit.
	Detail string
}

// Timeline is the outcome of a rehearsal.
type Timeline struct {
	Script    string
	Entries   []Entry
	Completed bool
	Duration  time.Duration
}

// Visited returns the ids of the steps entered, in order.
func (t *Timeline) Visited() []string {
	var ids []string
	for _, entry := range t.Entries {
		if entry.Kind == sequencer.TransitionEntered {
			ids = append(ids, entry.StepID)
		}
	}
	return ids
}

// Run rehearses script and returns its timeline. The timeline is returned
// alongside ErrStepLimit and ErrStalled so callers can show how far the
// deck got.
func Run(script sequencer.Script, cfg Config) (*Timeline, error) {
	if cfg.MaxSteps <= 0 {
		cfg.MaxSteps = DefaultMaxSteps
	}
	if cfg.Start.IsZero() {
		cfg.Start = time.Unix(0, 0).UTC()
	}
	advanceKey := sequencer.NormalizeKey(cfg.AdvanceKey)
	if advanceKey == "" {
		advanceKey = sequencer.DefaultAdvanceKey
	}

	r := &runner{
		cfg:    cfg,
		sched:  sequencer.NewManualScheduler(cfg.Start),
		logger: logging.Component("rehearsal").With().Str("script", script.Name).Logger(),
		timeline: &Timeline{
			Script: script.Name,
		},
	}

	seq, err := sequencer.New(script, sequencer.Options{
		Scheduler:  r.sched,
		Host:       sequencer.HostFunc(r.complete),
		Timing:     cfg.Timing,
		AdvanceKey: advanceKey,
		Observer:   r.observe,
		Logger:     &r.logger,
	})
	if err != nil {
		return nil, err
	}
	r.seq = seq
	r.advanceKey = advanceKey

	seq.Start()
	err = r.loop()
	r.timeline.Duration = r.sched.Now().Sub(cfg.Start)
	return r.timeline, err
}

type runner struct {
	cfg        Config
	sched      *sequencer.ManualScheduler
	seq        *sequencer.Sequencer
	advanceKey string
	logger     zerolog.Logger
	timeline   *Timeline
	entered    int
	overLimit  bool
	done       bool
}

func (r *runner) loop() error {
	for !r.done {
		if r.overLimit {
			r.seq.Stop()
			return fmt.Errorf("%w: stopped after %d steps", ErrStepLimit, r.cfg.MaxSteps)
		}
		if r.sched.Drain(1) > 0 {
			continue
		}
		if err := r.respond(); err != nil {
			r.seq.Stop()
			return err
		}
	}
	return nil
}

// respond plays the viewer's part once the step is waiting on nothing
// but a signal or a key press.
func (r *runner) respond() error {
	snap := r.seq.Snapshot()
	if !snap.HasStep || snap.Phase != sequencer.PhaseActive {
		return fmt.Errorf("%w: nothing scheduled in phase %s", ErrStalled, snap.Phase)
	}

	step := snap.Step
	var sig sequencer.Signal
	switch step.Advance.Mode {
	case sequencer.AdvanceOnInput:
		sig = sequencer.UserInput(r.advanceKey)
	case sequencer.AdvanceOnSignal:
		sig = sequencer.ViewCompletion()
		if result, ok := r.result(step); ok {
			sig = sequencer.ViewResult(result)
		}
		sig = sig.For(step.ID)
	default:
		return fmt.Errorf("%w: step %q has no pending timer", ErrStalled, step.ID)
	}

	r.logger.Debug().Str("step", step.ID).Str("signal", describe(sig)).Msg("responding")
	r.seq.RequestAdvance(sig)
	if r.seq.Phase() == sequencer.PhaseActive && r.sched.Pending() == 0 {
		return fmt.Errorf("%w: step %q ignored %s", ErrStalled, step.ID, describe(sig))
	}
	return nil
}

func (r *runner) result(step sequencer.Step) (string, bool) {
	if result, ok := r.cfg.Results[step.ID]; ok {
		return result, true
	}
	if step.Kind == sequencer.StepView {
		result, ok := r.cfg.Results[step.View.Name]
		return result, ok
	}
	return "", false
}

func (r *runner) observe(tr sequencer.Transition) {
	entry := Entry{
		Offset:   tr.At.Sub(r.cfg.Start),
		Kind:     tr.Kind,
		StepID:   tr.Step.ID,
		StepKind: tr.Step.Kind,
		Index:    tr.Index,
	}
	switch tr.Kind {
	case sequencer.TransitionEntered:
		if r.entered == r.cfg.MaxSteps {
			r.overLimit = true
			return
		}
		r.entered++
		if tr.Step.Kind == sequencer.StepView {
			entry.Detail = tr.Step.View.Name
		}
	case sequencer.TransitionExited:
		entry.Detail = describe(tr.Signal)
	case sequencer.TransitionCompleted:
		r.timeline.Completed = true
	}
	r.timeline.Entries = append(r.timeline.Entries, entry)

	if r.cfg.Observer != nil {
		r.cfg.Observer(tr)
	}
}

func (r *runner) complete() {
	r.done = true
}

func describe(sig sequencer.Signal) string {
	switch {
	case sig.Kind == sequencer.SignalUserInput:
		return "input " + sig.Key
	case sig.HasResult:
		return "completion " + sig.Result
	default:
		return sig.Kind.String()
	}
}
