package tui

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/components"
)

// viewHost implements sequencer.Views with components slides.
type viewHost struct {
	seq        *sequencer.Sequencer
	sched      sequencer.Scheduler
	sounds     sequencer.Sounds
	advanceKey string
	logger     zerolog.Logger

	current   components.Slide
	currentID string

	// active is set once the current step accepts signals. A slide that
	// finishes earlier has its result held in early until then.
	active bool
	early  *string

	// leaving stays on screen, closed, while its step fades out.
	leaving components.Slide
}

// Render implements sequencer.Views.
func (h *viewHost) Render(step sequencer.Step) {
	h.closeAll()
	h.currentID = step.ID

	env := components.Env{
		Scheduler:  h.sched,
		Sounds:     h.sounds,
		AdvanceKey: h.advanceKey,
		Logger:     h.logger,
		Done:       h.completion(step.ID),
	}
	slide, err := components.New(step.View, env)
	if err != nil {
		if errors.Is(err, components.ErrUnknownView) {
			h.logger.Warn().Str("step", step.ID).Str("view", step.View.Name).Msg("no slide for view, using fallback")
		}
		slide = components.NewFallback(step.View, env)
	}
	h.current = slide
}

// Activate implements sequencer.ViewActivator.
func (h *viewHost) Activate(step sequencer.Step) {
	if h.current == nil || h.currentID != step.ID {
		return
	}
	h.active = true
	if h.early != nil {
		result := *h.early
		h.early = nil
		h.report(step.ID, result)
	}
}

// Dismiss implements sequencer.Views.
func (h *viewHost) Dismiss(step sequencer.Step) {
	if h.current == nil || h.currentID != step.ID {
		return
	}
	h.current.Close()
	h.leaving = h.current
	h.current = nil
	h.currentID = ""
	h.active = false
	h.early = nil
}

func (h *viewHost) completion(stepID string) func(string) {
	return func(result string) {
		if h.currentID == stepID && !h.active {
			h.logger.Debug().Str("step", stepID).Msg("view finished during fade-in, holding result")
			h.early = &result
			return
		}
		h.report(stepID, result)
	}
}

func (h *viewHost) report(stepID, result string) {
	if h.seq == nil {
		return
	}
	sig := sequencer.ViewCompletion()
	if result != "" {
		sig = sequencer.ViewResult(result)
	}
	h.seq.RequestAdvance(sig.For(stepID))
}

// visible returns the slide to draw: the live one, or the one fading out.
func (h *viewHost) visible() components.Slide {
	if h.current != nil {
		return h.current
	}
	return h.leaving
}

func (h *viewHost) handleKey(key string) bool {
	if h.current == nil {
		return false
	}
	return h.current.HandleKey(key)
}

func (h *viewHost) handleClick(x, y int) bool {
	if h.current == nil {
		return false
	}
	return h.current.HandleClick(x, y)
}

func (h *viewHost) closeAll() {
	if h.current != nil {
		h.current.Close()
	}
	if h.leaving != nil {
		h.leaving.Close()
	}
	h.current = nil
	h.currentID = ""
	h.leaving = nil
	h.active = false
	h.early = nil
}
