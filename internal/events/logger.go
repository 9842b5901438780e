// Package events records play history from sequencer transitions.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/retrowrapped/wrapped/internal/logging"
	"github.com/retrowrapped/wrapped/internal/models"
	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// Repository is the minimal interface needed to write events.
type Repository interface {
	Create(ctx context.Context, event *models.Event) error
}

// LogPlayStarted records the start of a play.
func LogPlayStarted(ctx context.Context, repo Repository, playID string, payload models.PlayStartedPayload) error {
	return logPlayEvent(ctx, repo, playID, models.EventTypePlayStarted, payload)
}

// LogStepEntered records a step becoming current.
func LogStepEntered(ctx context.Context, repo Repository, playID string, payload models.StepEnteredPayload) error {
	return logPlayEvent(ctx, repo, playID, models.EventTypeStepEntered, payload)
}

// LogPlayFinished records the end of a play. completed distinguishes
// reaching the end of the deck from being stopped.
func LogPlayFinished(ctx context.Context, repo Repository, playID string, completed bool, payload models.PlayFinishedPayload) error {
	eventType := models.EventTypePlayStopped
	if completed {
		eventType = models.EventTypePlayComplete
	}
	return logPlayEvent(ctx, repo, playID, eventType, payload)
}

func logPlayEvent(ctx context.Context, repo Repository, playID string, eventType models.EventType, payload any) error {
	if repo == nil {
		return fmt.Errorf("event repository is required")
	}
	if playID == "" {
		return fmt.Errorf("play id is required")
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", eventType, err)
	}

	return repo.Create(ctx, &models.Event{
		Type:       eventType,
		EntityType: models.EntityTypePlay,
		EntityID:   playID,
		Payload:    data,
	})
}

// Recorder turns the transitions of one play into history events. Write
// failures are logged and never reach the sequence.
type Recorder struct {
	ctx      context.Context
	repo     Repository
	playID   string
	deck     string
	source   string
	mode     models.PlayMode
	now      func() time.Time
	logger   zerolog.Logger
	started  time.Time
	visited  int
	lastStep string
	finished bool
}

// NewRecorder creates a Recorder with a fresh play id.
func NewRecorder(ctx context.Context, repo Repository, deck, source string, mode models.PlayMode) *Recorder {
	id := uuid.NewString()
	return &Recorder{
		ctx:    ctx,
		repo:   repo,
		playID: id,
		deck:   deck,
		source: source,
		mode:   mode,
		now:    time.Now,
		logger: logging.Component("history").With().Str("play", id).Logger(),
	}
}

// PlayID returns the id events are recorded under.
func (r *Recorder) PlayID() string {
	return r.playID
}

// Begin records play.started.
func (r *Recorder) Begin(steps int) {
	r.started = r.now()
	r.check(LogPlayStarted(r.ctx, r.repo, r.playID, models.PlayStartedPayload{
		Deck:   r.deck,
		Source: r.source,
		Mode:   r.mode,
		Steps:  steps,
	}))
}

// Observe is a sequencer.Observer.
func (r *Recorder) Observe(tr sequencer.Transition) {
	if r.finished {
		return
	}
	switch tr.Kind {
	case sequencer.TransitionEntered:
		r.visited++
		r.lastStep = tr.Step.ID
		r.check(LogStepEntered(r.ctx, r.repo, r.playID, models.StepEnteredPayload{
			StepID: tr.Step.ID,
			Kind:   tr.Step.Kind.String(),
			Index:  tr.Index,
		}))
	case sequencer.TransitionCompleted:
		r.finish(true)
	case sequencer.TransitionStopped:
		r.finish(false)
	}
}

func (r *Recorder) finish(completed bool) {
	r.finished = true
	r.check(LogPlayFinished(r.ctx, r.repo, r.playID, completed, models.PlayFinishedPayload{
		StepsVisited: r.visited,
		LastStep:     r.lastStep,
		Duration:     r.now().Sub(r.started).Round(time.Millisecond).String(),
	}))
}

func (r *Recorder) check(err error) {
	if err != nil {
		r.logger.Warn().Err(err).Msg("failed to record history event")
	}
}
