// Package models holds the records wrapped persists.
package models

import (
	"encoding/json"
	"errors"
	"strings"
	"time"
)

// EventType categorizes history events.
type EventType string

const (
	EventTypePlayStarted  EventType = "play.started"
	EventTypeStepEntered  EventType = "play.step_entered"
	EventTypePlayComplete EventType = "play.completed"
	EventTypePlayStopped  EventType = "play.stopped"
)

// EntityType identifies what an event relates to.
type EntityType string

const (
	EntityTypePlay EntityType = "play"
)

// PlayMode distinguishes interactive plays from headless rehearsals.
type PlayMode string

const (
	PlayModeInteractive PlayMode = "play"
	PlayModeRehearsal   PlayMode = "rehearse"
)

// Event is an append-only history entry.
type Event struct {
	ID         string            `json:"id"`
	Timestamp  time.Time         `json:"timestamp"`
	Type       EventType         `json:"type"`
	EntityType EntityType        `json:"entity_type"`
	EntityID   string            `json:"entity_id"`
	Payload    json.RawMessage   `json:"payload,omitempty"`
	Metadata   map[string]string `json:"metadata,omitempty"`
}

// Validate checks the fields every event needs.
func (e *Event) Validate() error {
	var problems []string
	if strings.TrimSpace(string(e.Type)) == "" {
		problems = append(problems, "event type is required")
	}
	if strings.TrimSpace(string(e.EntityType)) == "" {
		problems = append(problems, "entity_type is required")
	}
	if strings.TrimSpace(e.EntityID) == "" {
		problems = append(problems, "entity_id is required")
	}
	if len(problems) == 0 {
		return nil
	}
	return errors.New(strings.Join(problems, "; "))
}

// PlayStartedPayload is the payload for play.started events.
type PlayStartedPayload struct {
	Deck   string   `json:"deck"`
	Source string   `json:"source,omitempty"`
	Mode   PlayMode `json:"mode"`
	Steps  int      `json:"steps"`
}

// StepEnteredPayload is the payload for play.step_entered events.
type StepEnteredPayload struct {
	StepID string `json:"step_id"`
	Kind   string `json:"kind"`
	Index  int    `json:"index"`
}

// PlayFinishedPayload is the payload for play.completed and play.stopped.
type PlayFinishedPayload struct {
	StepsVisited int    `json:"steps_visited"`
	LastStep     string `json:"last_step,omitempty"`
	Duration     string `json:"duration"`
}
