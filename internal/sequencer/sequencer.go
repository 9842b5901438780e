package sequencer

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/retrowrapped/wrapped/internal/logging"
)

// ErrNoScheduler is returned by New when Options.Scheduler is nil.
var ErrNoScheduler = errors.New("scheduler is required")

// DefaultAdvanceKey is the key recognized as "advance" when none is set.
const DefaultAdvanceKey = "space"

// Phase is the sub-state of the current step.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseEntering
	PhaseActive
	PhaseExiting
	PhaseComplete
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseEntering:
		return "entering"
	case PhaseActive:
		return "active"
	case PhaseExiting:
		return "exiting"
	case PhaseComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// Options wires a Sequencer to its collaborators.
type Options struct {
	Scheduler Scheduler
	Views     Views
	Host      Host
	Sounds    Sounds

	// Timing defaults to DefaultTiming when left zero.
	Timing Timing

	// AdvanceKey defaults to DefaultAdvanceKey.
	AdvanceKey string

	// Observer, when set, receives every transition.
	Observer Observer

	// Logger defaults to the "sequencer" component logger.
	Logger *zerolog.Logger
}

// Snapshot is a read-only view of the sequence state for rendering.
type Snapshot struct {
	Step          Step
	HasStep       bool
	Index         int
	Phase         Phase
	Locked        bool
	Revealed      string
	FullyRevealed bool
	PhaseStarted  time.Time
	PhaseDuration time.Duration
}

// PhaseProgress returns how far through the current phase now is, in [0,1].
// Phases without a duration report 1.
func (s Snapshot) PhaseProgress(now time.Time) float64 {
	if s.PhaseDuration <= 0 {
		return 1
	}
	elapsed := now.Sub(s.PhaseStarted)
	if elapsed <= 0 {
		return 0
	}
	if elapsed >= s.PhaseDuration {
		return 1
	}
	return float64(elapsed) / float64(s.PhaseDuration)
}

// Sequencer owns the sequence state. Only its own methods mutate it.
type Sequencer struct {
	script     Script
	positions  map[string]int
	sched      Scheduler
	views      Views
	host       Host
	sounds     Sounds
	timing     Timing
	advanceKey string
	observer   Observer
	logger     zerolog.Logger

	current       int
	phase         Phase
	locked        bool
	started       bool
	stopped       bool
	notified      bool
	text          []rune
	revealed      int
	fullyRevealed bool
	phaseStarted  time.Time
	phaseDuration time.Duration
	pending       map[TimerID]struct{}
}

// New validates script and builds a Sequencer in PhaseIdle.
func New(script Script, opts Options) (*Sequencer, error) {
	if opts.Scheduler == nil {
		return nil, ErrNoScheduler
	}
	if err := script.Validate(); err != nil {
		return nil, fmt.Errorf("invalid script %q: %w", script.Name, err)
	}

	timing := opts.Timing
	if timing == (Timing{}) {
		timing = DefaultTiming()
	}

	s := &Sequencer{
		script:     script,
		positions:  make(map[string]int, len(script.Steps)),
		sched:      opts.Scheduler,
		views:      opts.Views,
		host:       opts.Host,
		sounds:     opts.Sounds,
		timing:     timing.withDefaults(),
		advanceKey: NormalizeKey(opts.AdvanceKey),
		observer:   opts.Observer,
		pending:    make(map[TimerID]struct{}),
	}
	for i, step := range script.Steps {
		s.positions[step.ID] = i
	}
	if s.views == nil {
		s.views = noopViews{}
	}
	if s.host == nil {
		s.host = HostFunc(nil)
	}
	if s.sounds == nil {
		s.sounds = noopSounds{}
	}
	if s.advanceKey == "" {
		s.advanceKey = DefaultAdvanceKey
	}
	if opts.Logger != nil {
		s.logger = *opts.Logger
	} else {
		s.logger = logging.Component("sequencer")
	}
	s.logger = s.logger.With().Str("script", script.Name).Logger()

	return s, nil
}

// Start enters the first step. It is a no-op once started or stopped.
func (s *Sequencer) Start() {
	if s.started || s.stopped {
		return
	}
	s.started = true
	s.logger.Debug().Int("steps", len(s.script.Steps)).Msg("sequence starting")
	s.enter(0)
}

// Stop tears the sequence down, releasing every pending timer. The host
// callback will not fire after Stop.
func (s *Sequencer) Stop() {
	if s.stopped {
		return
	}
	s.stopped = true
	s.cancelTimers()

	step, ok := s.Current()
	if ok && step.Kind == StepView && (s.phase == PhaseEntering || s.phase == PhaseActive) {
		s.views.Dismiss(step)
	}
	if s.started {
		s.emit(Transition{Kind: TransitionStopped, Step: step, Index: s.current})
	}
	s.logger.Debug().Str("phase", s.phase.String()).Msg("sequence stopped")
}

// RequestAdvance is the only way to move the sequence forward. Signals
// that do not match the current step's policy, or that arrive while a
// transition is in flight, are dropped.
func (s *Sequencer) RequestAdvance(sig Signal) {
	if !s.started || s.stopped || s.phase == PhaseComplete {
		return
	}
	if s.locked {
		s.logger.Debug().Str("signal", sig.Kind.String()).Msg("signal dropped: transition in flight")
		return
	}

	step := s.script.Steps[s.current]
	if sig.StepID != "" && sig.StepID != step.ID {
		return
	}
	if sig.Kind == SignalUserInput && NormalizeKey(sig.Key) != s.advanceKey {
		return
	}
	if !step.Advance.accepts(sig.Kind) {
		s.logger.Debug().
			Str("step", step.ID).
			Str("signal", sig.Kind.String()).
			Str("policy", step.Advance.Mode.String()).
			Msg("signal does not match advance policy")
		return
	}

	if step.Kind == StepMessage && !s.fullyRevealed {
		if sig.Kind == SignalUserInput {
			s.finishReveal()
		}
		return
	}

	s.exit(step, s.resolveNext(step, sig), sig)
}

// Current returns the current step, if any.
func (s *Sequencer) Current() (Step, bool) {
	if !s.started || s.current >= len(s.script.Steps) {
		return Step{}, false
	}
	return s.script.Steps[s.current], true
}

// Phase returns the current phase.
func (s *Sequencer) Phase() Phase {
	return s.phase
}

// Locked reports whether a transition is in flight.
func (s *Sequencer) Locked() bool {
	return s.locked
}

// Done reports whether the terminal sentinel has been reached.
func (s *Sequencer) Done() bool {
	return s.phase == PhaseComplete
}

// Script returns the script the sequencer runs.
func (s *Sequencer) Script() Script {
	return s.script
}

// Snapshot captures the render state.
func (s *Sequencer) Snapshot() Snapshot {
	snap := Snapshot{
		Index:         s.current,
		Phase:         s.phase,
		Locked:        s.locked,
		FullyRevealed: s.fullyRevealed,
		PhaseStarted:  s.phaseStarted,
		PhaseDuration: s.phaseDuration,
	}
	if step, ok := s.Current(); ok {
		snap.Step = step
		snap.HasStep = true
		if step.Kind == StepMessage {
			snap.Revealed = string(s.text[:s.revealed])
		}
	}
	return snap
}

func (s *Sequencer) enter(index int) {
	step := s.script.Steps[index]
	s.current = index
	s.locked = true
	s.text = []rune(step.Text)
	s.revealed = 0
	s.fullyRevealed = false
	s.setPhase(PhaseEntering, s.timing.fadeIn(step.Kind))

	s.logger.Debug().Str("step", step.ID).Str("kind", step.Kind.String()).Msg("entering step")
	if step.Kind == StepView {
		s.views.Render(step)
	}
	s.emit(Transition{Kind: TransitionEntered, Step: step, Index: index})
	s.after(s.phaseDuration, s.activate)
}

func (s *Sequencer) activate() {
	step := s.script.Steps[s.current]
	s.locked = false
	s.setPhase(PhaseActive, 0)

	switch step.Kind {
	case StepMessage:
		if len(s.text) == 0 {
			s.finishReveal()
			return
		}
		s.after(s.timing.TypeInterval, s.typeNext)
	case StepView:
		if step.Advance.Mode == AdvanceAuto {
			s.after(step.Advance.After, s.expire)
		}
		if activator, ok := s.views.(ViewActivator); ok {
			activator.Activate(step)
		}
	}
}

func (s *Sequencer) typeNext() {
	if s.fullyRevealed {
		return
	}
	s.revealed++
	if r := s.text[s.revealed-1]; r != ' ' && r != '\n' {
		s.play("typing", s.sounds.PlayTypingTick)
	}
	if s.revealed >= len(s.text) {
		s.finishReveal()
		return
	}
	s.after(s.timing.TypeInterval, s.typeNext)
}

func (s *Sequencer) finishReveal() {
	s.cancelTimers()
	s.revealed = len(s.text)
	s.fullyRevealed = true

	step := s.script.Steps[s.current]
	if step.Advance.Mode == AdvanceAuto {
		s.after(step.Advance.After, s.expire)
	}
}

func (s *Sequencer) expire() {
	step := s.script.Steps[s.current]
	s.RequestAdvance(TimerExpired().For(step.ID))
}

func (s *Sequencer) exit(step Step, next int, sig Signal) {
	s.cancelTimers()
	s.locked = true
	s.setPhase(PhaseExiting, s.timing.fadeOut(step.Kind))

	if step.Kind == StepView {
		s.views.Dismiss(step)
	}
	switch sig.Kind {
	case SignalUserInput:
		s.play("confirm", s.sounds.PlayConfirm)
	case SignalViewCompletion:
		s.play("select", s.sounds.PlaySelect)
	}

	s.logger.Debug().
		Str("step", step.ID).
		Str("signal", sig.Kind.String()).
		Str("result", sig.Result).
		Msg("exiting step")
	s.emit(Transition{Kind: TransitionExited, Step: step, Index: s.current, Signal: sig})

	s.after(s.phaseDuration, func() {
		if next >= len(s.script.Steps) {
			s.complete()
			return
		}
		s.enter(next)
	})
}

func (s *Sequencer) complete() {
	s.current = len(s.script.Steps)
	s.locked = false
	s.text = nil
	s.revealed = 0
	s.setPhase(PhaseComplete, s.timing.CompleteDelay)
	s.logger.Debug().Msg("sequence complete")
	s.emit(Transition{Kind: TransitionCompleted, Index: s.current})

	s.after(s.timing.CompleteDelay, func() {
		if s.notified {
			return
		}
		s.notified = true
		s.host.OnSequenceComplete()
	})
}

// resolveNext picks the successor index; len(steps) is the terminal sentinel.
func (s *Sequencer) resolveNext(step Step, sig Signal) int {
	if sig.Kind == SignalViewCompletion && sig.HasResult {
		if target, ok := step.Branches[sig.Result]; ok {
			return s.position(target)
		}
	}
	if step.Next != "" {
		return s.position(step.Next)
	}
	return s.current + 1
}

func (s *Sequencer) position(id string) int {
	if id == EndStepID {
		return len(s.script.Steps)
	}
	if pos, ok := s.positions[id]; ok {
		return pos
	}
	return len(s.script.Steps)
}

func (s *Sequencer) emit(t Transition) {
	if s.observer == nil {
		return
	}
	t.At = s.sched.Now()
	s.observer(t)
}

func (s *Sequencer) setPhase(phase Phase, d time.Duration) {
	s.phase = phase
	s.phaseStarted = s.sched.Now()
	s.phaseDuration = d
}

func (s *Sequencer) after(d time.Duration, fn func()) {
	var id TimerID
	id = s.sched.Schedule(d, func() {
		delete(s.pending, id)
		if s.stopped {
			return
		}
		fn()
	})
	s.pending[id] = struct{}{}
}

func (s *Sequencer) cancelTimers() {
	for id := range s.pending {
		s.sched.Cancel(id)
	}
	clear(s.pending)
}

func (s *Sequencer) play(name string, fn func() error) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Debug().Str("sound", name).Interface("panic", r).Msg("sound trigger panicked")
		}
	}()
	if err := fn(); err != nil {
		s.logger.Debug().Err(err).Str("sound", name).Msg("sound trigger failed")
	}
}
