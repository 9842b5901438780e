// Package sequencer drives the ordered reveal of slideshow steps.
//
// A Sequencer owns the current step, its phase and the transition lock.
// Timers and user input both reach it through RequestAdvance; the step's
// advance policy decides whether a signal is honored. All methods must be
// called from a single goroutine (the UI event loop).
package sequencer

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// EndStepID is the reserved id that resolves to the terminal sentinel.
const EndStepID = "end"

// Script errors.
var (
	ErrEmptyScript   = errors.New("script has no steps")
	ErrMissingStepID = errors.New("step id is required")
	ErrDuplicateStep = errors.New("duplicate step id")
	ErrUnknownTarget = errors.New("unknown step target")
	ErrInvalidStep   = errors.New("invalid step")
)

// StepKind distinguishes text steps from view steps.
type StepKind int

const (
	StepMessage StepKind = iota
	StepView
)

func (k StepKind) String() string {
	switch k {
	case StepMessage:
		return "message"
	case StepView:
		return "view"
	default:
		return "unknown"
	}
}

// AdvanceMode describes how a step ends.
type AdvanceMode int

const (
	// AdvanceAuto ends the step when its After timer expires.
	AdvanceAuto AdvanceMode = iota
	// AdvanceOnSignal waits for a ViewCompletion signal.
	AdvanceOnSignal
	// AdvanceOnInput waits for the advance key.
	AdvanceOnInput
)

func (m AdvanceMode) String() string {
	switch m {
	case AdvanceAuto:
		return "auto"
	case AdvanceOnSignal:
		return "signal"
	case AdvanceOnInput:
		return "input"
	default:
		return "unknown"
	}
}

// ParseAdvanceMode maps a deck keyword to an AdvanceMode.
func ParseAdvanceMode(value string) (AdvanceMode, error) {
	switch strings.ReplaceAll(strings.ToLower(strings.TrimSpace(value)), "_", "-") {
	case "auto", "auto-after", "timer":
		return AdvanceAuto, nil
	case "signal", "manual-on-signal", "completion":
		return AdvanceOnSignal, nil
	case "input", "manual-on-input", "key":
		return AdvanceOnInput, nil
	default:
		return 0, fmt.Errorf("unknown advance mode %q", value)
	}
}

// AdvancePolicy is the end condition of a step.
type AdvancePolicy struct {
	Mode AdvanceMode

	// After is the hold time for AdvanceAuto steps. For message steps the
	// hold starts once the text is fully revealed.
	After time.Duration

	// Skippable lets the advance key end an AdvanceAuto step early.
	Skippable bool
}

// AutoAfter builds an AdvanceAuto policy.
func AutoAfter(d time.Duration) AdvancePolicy {
	return AdvancePolicy{Mode: AdvanceAuto, After: d}
}

// OnSignal builds an AdvanceOnSignal policy.
func OnSignal() AdvancePolicy {
	return AdvancePolicy{Mode: AdvanceOnSignal}
}

// OnInput builds an AdvanceOnInput policy.
func OnInput() AdvancePolicy {
	return AdvancePolicy{Mode: AdvanceOnInput}
}

func (p AdvancePolicy) accepts(kind SignalKind) bool {
	switch p.Mode {
	case AdvanceAuto:
		return kind == SignalTimerExpired || (p.Skippable && kind == SignalUserInput)
	case AdvanceOnSignal:
		return kind == SignalViewCompletion
	case AdvanceOnInput:
		return kind == SignalUserInput
	default:
		return false
	}
}

// ViewRef names an external view collaborator and its parameters.
type ViewRef struct {
	Name   string
	Params map[string]string
}

// Param returns a view parameter or def when unset.
func (v ViewRef) Param(key, def string) string {
	if value, ok := v.Params[key]; ok && strings.TrimSpace(value) != "" {
		return value
	}
	return def
}

// Step is one unit of the presentation.
type Step struct {
	ID      string
	Kind    StepKind
	Text    string
	View    ViewRef
	Advance AdvancePolicy

	// Next is the default successor. Empty means the following step in the
	// script; EndStepID means the sequence completes.
	Next string

	// Branches maps a ViewCompletion result to a successor id.
	Branches map[string]string
}

// Script is the ordered step list a Sequencer runs.
type Script struct {
	Name  string
	Steps []Step
}

// Validate checks ids, successors and per-kind requirements.
func (s Script) Validate() error {
	if len(s.Steps) == 0 {
		return ErrEmptyScript
	}

	ids := make(map[string]struct{}, len(s.Steps))
	for i, step := range s.Steps {
		id := strings.TrimSpace(step.ID)
		if id == "" {
			return fmt.Errorf("step %d: %w", i+1, ErrMissingStepID)
		}
		if id != step.ID {
			return fmt.Errorf("step %d: id %q has surrounding whitespace: %w", i+1, step.ID, ErrInvalidStep)
		}
		if id == EndStepID {
			return fmt.Errorf("step %d: id %q is reserved: %w", i+1, EndStepID, ErrInvalidStep)
		}
		if _, exists := ids[id]; exists {
			return fmt.Errorf("step %q: %w", id, ErrDuplicateStep)
		}
		ids[id] = struct{}{}
	}

	for _, step := range s.Steps {
		if err := validateStep(step); err != nil {
			return fmt.Errorf("step %q: %w", step.ID, err)
		}
		if err := checkTarget(ids, step.Next); err != nil {
			return fmt.Errorf("step %q next: %w", step.ID, err)
		}
		for result, target := range step.Branches {
			if err := checkTarget(ids, target); err != nil {
				return fmt.Errorf("step %q branch %q: %w", step.ID, result, err)
			}
		}
	}
	return nil
}

func validateStep(step Step) error {
	switch step.Kind {
	case StepMessage:
		if strings.TrimSpace(step.Text) == "" {
			return fmt.Errorf("message text is required: %w", ErrInvalidStep)
		}
		if step.Advance.Mode == AdvanceOnSignal {
			return fmt.Errorf("message steps cannot wait for a view signal: %w", ErrInvalidStep)
		}
	case StepView:
		if strings.TrimSpace(step.View.Name) == "" {
			return fmt.Errorf("view name is required: %w", ErrInvalidStep)
		}
	default:
		return fmt.Errorf("unknown step kind %d: %w", step.Kind, ErrInvalidStep)
	}

	switch step.Advance.Mode {
	case AdvanceAuto:
		if step.Advance.After <= 0 {
			return fmt.Errorf("auto advance requires a positive duration: %w", ErrInvalidStep)
		}
	case AdvanceOnSignal, AdvanceOnInput:
	default:
		return fmt.Errorf("unknown advance mode %d: %w", step.Advance.Mode, ErrInvalidStep)
	}

	if len(step.Branches) > 0 && step.Advance.Mode != AdvanceOnSignal {
		return fmt.Errorf("branches require signal advance: %w", ErrInvalidStep)
	}
	return nil
}

func checkTarget(ids map[string]struct{}, target string) error {
	if target == "" || target == EndStepID {
		return nil
	}
	if _, ok := ids[target]; !ok {
		return fmt.Errorf("%q: %w", target, ErrUnknownTarget)
	}
	return nil
}
