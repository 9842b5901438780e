package sequencer

import "strings"

// SignalKind identifies where an advance request came from.
type SignalKind int

const (
	SignalTimerExpired SignalKind = iota
	SignalUserInput
	SignalViewCompletion
)

func (k SignalKind) String() string {
	switch k {
	case SignalTimerExpired:
		return "timer"
	case SignalUserInput:
		return "input"
	case SignalViewCompletion:
		return "completion"
	default:
		return "unknown"
	}
}

// Signal is a request to advance the sequence.
type Signal struct {
	Kind SignalKind

	// Key is the normalized key for SignalUserInput.
	Key string

	// Result is the optional outcome carried by SignalViewCompletion.
	Result    string
	HasResult bool

	// StepID, when set, restricts the signal to that step. Signals aimed
	// at a step that is no longer current are dropped.
	StepID string
}

// TimerExpired builds a timer signal.
func TimerExpired() Signal {
	return Signal{Kind: SignalTimerExpired}
}

// UserInput builds an input signal for key.
func UserInput(key string) Signal {
	return Signal{Kind: SignalUserInput, Key: NormalizeKey(key)}
}

// ViewCompletion builds a completion signal without a result.
func ViewCompletion() Signal {
	return Signal{Kind: SignalViewCompletion}
}

// ViewResult builds a completion signal carrying result.
func ViewResult(result string) Signal {
	return Signal{Kind: SignalViewCompletion, Result: result, HasResult: true}
}

// For scopes the signal to a step id.
func (s Signal) For(stepID string) Signal {
	s.StepID = stepID
	return s
}

// NormalizeKey lowercases a key name and maps a literal blank to "space".
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	return strings.ToLower(strings.TrimSpace(key))
}
