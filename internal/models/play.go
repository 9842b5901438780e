package models

import "time"

// PlaySummary folds the events of one play into a row.
type PlaySummary struct {
	PlayID       string
	Deck         string
	Mode         PlayMode
	StartedAt    time.Time
	FinishedAt   *time.Time
	Completed    bool
	StepsVisited int
}

// Finished reports whether the play reached an end event.
func (p *PlaySummary) Finished() bool {
	return p.FinishedAt != nil
}

// Duration is the wall time of a finished play, or zero.
func (p *PlaySummary) Duration() time.Duration {
	if p.FinishedAt == nil {
		return 0
	}
	return p.FinishedAt.Sub(p.StartedAt)
}
