package sequencer

import "time"

// Views renders view steps. A view reports that its own interaction is
// finished by calling RequestAdvance with a ViewCompletion signal; it
// never decides which step comes next.
type Views interface {
	Render(step Step)
	Dismiss(step Step)
}

// ViewActivator is optionally implemented by Views. Activate is called
// once a view step has faded in and accepts signals; completions reported
// before then would be dropped by the transition lock.
type ViewActivator interface {
	Activate(step Step)
}

// Host is notified once when the sequence has completed.
type Host interface {
	OnSequenceComplete()
}

// HostFunc adapts a function to Host.
type HostFunc func()

// OnSequenceComplete implements Host.
func (f HostFunc) OnSequenceComplete() {
	if f != nil {
		f()
	}
}

// Sounds are fire-and-forget effects. Failures never affect the sequence.
type Sounds interface {
	PlayTypingTick() error
	PlayConfirm() error
	PlaySelect() error
}

type noopViews struct{}

func (noopViews) Render(Step)  {}
func (noopViews) Dismiss(Step) {}

type noopSounds struct{}

func (noopSounds) PlayTypingTick() error { return nil }
func (noopSounds) PlayConfirm() error    { return nil }
func (noopSounds) PlaySelect() error     { return nil }

// Timing holds the fixed transition durations.
type Timing struct {
	MessageFadeOut time.Duration
	ViewFadeOut    time.Duration
	MessageFadeIn  time.Duration
	ViewFadeIn     time.Duration

	// TypeInterval is the delay between revealed characters.
	TypeInterval time.Duration

	// CompleteDelay separates the final fade-out from the host callback.
	CompleteDelay time.Duration
}

// DefaultTiming returns the standard presentation timing.
func DefaultTiming() Timing {
	return Timing{
		MessageFadeOut: 500 * time.Millisecond,
		ViewFadeOut:    1000 * time.Millisecond,
		MessageFadeIn:  200 * time.Millisecond,
		ViewFadeIn:     1000 * time.Millisecond,
		TypeInterval:   45 * time.Millisecond,
		CompleteDelay:  500 * time.Millisecond,
	}
}

func (t Timing) fadeIn(kind StepKind) time.Duration {
	if kind == StepView {
		return t.ViewFadeIn
	}
	return t.MessageFadeIn
}

func (t Timing) fadeOut(kind StepKind) time.Duration {
	if kind == StepView {
		return t.ViewFadeOut
	}
	return t.MessageFadeOut
}

func (t Timing) withDefaults() Timing {
	def := DefaultTiming()
	if t.MessageFadeOut < 0 {
		t.MessageFadeOut = def.MessageFadeOut
	}
	if t.ViewFadeOut < 0 {
		t.ViewFadeOut = def.ViewFadeOut
	}
	if t.MessageFadeIn < 0 {
		t.MessageFadeIn = def.MessageFadeIn
	}
	if t.ViewFadeIn < 0 {
		t.ViewFadeIn = def.ViewFadeIn
	}
	if t.TypeInterval <= 0 {
		t.TypeInterval = def.TypeInterval
	}
	if t.CompleteDelay < 0 {
		t.CompleteDelay = def.CompleteDelay
	}
	return t
}
