package sequencer

import "time"

// TransitionKind classifies a Transition.
type TransitionKind int

const (
	TransitionEntered TransitionKind = iota
	TransitionExited
	TransitionCompleted
	TransitionStopped
)

func (k TransitionKind) String() string {
	switch k {
	case TransitionEntered:
		return "entered"
	case TransitionExited:
		return "exited"
	case TransitionCompleted:
		return "completed"
	case TransitionStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Transition reports a state change to an Observer. Step is zero for
// TransitionCompleted; Signal is set only for TransitionExited.
type Transition struct {
	Kind   TransitionKind
	Step   Step
	Index  int
	Signal Signal
	At     time.Time
}

// Observer is told about transitions after they happen. It must not call
// back into the Sequencer.
type Observer func(Transition)
