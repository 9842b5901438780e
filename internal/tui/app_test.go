package tui

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/retrowrapped/wrapped/internal/models"
	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/sequences"
	"github.com/retrowrapped/wrapped/internal/settings"
)

type memoryHistory struct {
	mu     sync.Mutex
	events []*models.Event
}

func (h *memoryHistory) Create(_ context.Context, event *models.Event) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, event)
	return nil
}

func (h *memoryHistory) types() []models.EventType {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]models.EventType, 0, len(h.events))
	for _, event := range h.events {
		out = append(out, event.Type)
	}
	return out
}

func testDeck() *sequences.Sequence {
	return &sequences.Sequence{
		Name:      "test-deck",
		Source:    sequences.SourceBuiltin,
		Variables: []sequences.SequenceVar{{Name: "brand", Default: "retro"}},
		Steps: []sequences.SequenceStep{
			{ID: "hi", Type: sequences.StepTypeMessage, Text: "HI", Advance: "input"},
			{
				ID:       "pick",
				Type:     sequences.StepTypeView,
				View:     "quiz",
				Params:   map[string]string{"question": "Q?", "choices": "A|B", "answer": "B"},
				Advance:  "signal",
				Branches: map[string]string{"correct": "yes"},
				Next:     "end",
			},
			{ID: "yes", Type: sequences.StepTypeMessage, Text: "YES", Advance: "auto", After: "1s"},
		},
	}
}

func fastTiming() sequencer.Timing {
	return sequencer.Timing{
		MessageFadeOut: 10 * time.Millisecond,
		ViewFadeOut:    10 * time.Millisecond,
		MessageFadeIn:  10 * time.Millisecond,
		ViewFadeIn:     10 * time.Millisecond,
		TypeInterval:   time.Millisecond,
		CompleteDelay:  10 * time.Millisecond,
	}
}

func newTestModel(t *testing.T, history *memoryHistory) *model {
	t.Helper()
	require.NoError(t, settings.Init(context.Background(), nil))

	cfg := Config{Deck: testDeck(), Timing: fastTiming(), AdvanceKey: "space"}
	if history != nil {
		cfg.History = history
	}
	m, err := newModel(cfg)
	require.NoError(t, err)
	m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	return m
}

func press(m *model, k string) tea.Cmd {
	msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	switch k {
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "space":
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{' '}}
	}
	_, cmd := m.Update(msg)
	return cmd
}

// settle fires pending timers oldest first until none are left.
func settle(t *testing.T, m *model) {
	t.Helper()
	for i := 0; i < 1000; i++ {
		if len(m.sched.pending) == 0 {
			return
		}
		ids := make([]sequencer.TimerID, 0, len(m.sched.pending))
		for id := range m.sched.pending {
			ids = append(ids, id)
		}
		m.Update(timerMsg{id: slices.Min(ids)})
	}
	t.Fatal("timers did not settle")
}

func startPlaying(t *testing.T, m *model) {
	t.Helper()
	require.NotNil(t, press(m, "space"))
	require.Equal(t, screenLandingFade, m.screen)
	m.Update(startSequenceMsg{})
	require.Equal(t, screenSequence, m.screen)
	settle(t, m)
}

func TestLandingShowsBrand(t *testing.T) {
	m := newTestModel(t, nil)
	view := m.View()
	require.Contains(t, view, "RETRO WRAPPED")
	require.Contains(t, view, "TO REVEAL")
}

func TestPlayThroughBranchesAndRecords(t *testing.T) {
	history := &memoryHistory{}
	m := newTestModel(t, history)
	startPlaying(t, m)

	snap := m.seq.Snapshot()
	require.Equal(t, "hi", snap.Step.ID)
	require.True(t, snap.FullyRevealed)
	require.Contains(t, m.View(), "HI")

	press(m, "space")
	settle(t, m)
	require.Equal(t, "pick", m.seq.Snapshot().Step.ID)
	require.Equal(t, sequencer.PhaseActive, m.seq.Phase())

	press(m, "2")
	press(m, "space")
	settle(t, m)

	require.Equal(t, screenLanding, m.screen)
	require.Nil(t, m.seq)
	require.Equal(t, []models.EventType{
		models.EventTypePlayStarted,
		models.EventTypeStepEntered,
		models.EventTypeStepEntered,
		models.EventTypeStepEntered,
		models.EventTypePlayComplete,
	}, history.types())
}

func TestEscAbandonsSequence(t *testing.T) {
	history := &memoryHistory{}
	m := newTestModel(t, history)
	startPlaying(t, m)

	press(m, "esc")
	require.Equal(t, screenLanding, m.screen)
	require.Zero(t, m.sched.Pending())

	types := history.types()
	require.Equal(t, models.EventTypePlayStopped, types[len(types)-1])
}

func TestQuitStopsSequence(t *testing.T) {
	m := newTestModel(t, nil)
	startPlaying(t, m)

	cmd := press(m, "q")
	require.NotNil(t, cmd)
	require.Nil(t, m.seq)
}

func TestPopupOpensAndCloses(t *testing.T) {
	m := newTestModel(t, nil)

	press(m, "a")
	require.NotNil(t, m.popup)
	require.Contains(t, m.View(), "ABOUT")

	press(m, "space")
	require.Equal(t, screenLanding, m.screen, "reveal is blocked while a popup is open")

	press(m, "esc")
	require.Nil(t, m.popup)

	press(m, "c")
	require.NotNil(t, m.popup)
	require.Contains(t, m.View(), "CONTACT")
}

func TestMuteToggle(t *testing.T) {
	m := newTestModel(t, nil)
	require.False(t, settings.Muted())

	press(m, "m")
	require.True(t, settings.Muted())
	require.Contains(t, m.View(), "UNMUTE")

	press(m, "m")
	require.False(t, settings.Muted())
}

func TestTooSmallTerminal(t *testing.T) {
	m := newTestModel(t, nil)
	m.Update(tea.WindowSizeMsg{Width: 40, Height: 10})

	require.True(t, m.tooSmall())
	require.Contains(t, m.View(), "TOO SMALL")

	press(m, "space")
	require.Equal(t, screenLanding, m.screen)
}

func TestUnknownViewFallsBack(t *testing.T) {
	deck := testDeck()
	deck.Steps = []sequences.SequenceStep{
		{ID: "odd", Type: sequences.StepTypeView, View: "hologram", Advance: "signal"},
	}
	require.NoError(t, settings.Init(context.Background(), nil))
	m, err := newModel(Config{Deck: deck, Timing: fastTiming()})
	require.NoError(t, err)

	startPlaying(t, m)
	require.Contains(t, m.View(), "HOLOGRAM")

	press(m, "space")
	settle(t, m)
	require.Equal(t, screenLanding, m.screen)
}

func TestLandingTitle(t *testing.T) {
	deck := testDeck()
	require.Equal(t, "ACME WRAPPED", landingTitle(deck, map[string]string{"brand": "acme"}))
	require.Equal(t, "RETRO WRAPPED", landingTitle(deck, nil))

	deck.Variables = nil
	require.Equal(t, "TEST-DECK", landingTitle(deck, nil))
}

func TestMessageFadesWithPhase(t *testing.T) {
	m := newTestModel(t, nil)
	press(m, "space")
	m.Update(startSequenceMsg{})

	require.Equal(t, sequencer.PhaseEntering, m.seq.Phase())
	require.NotPanics(t, func() { _ = m.View() })
	require.False(t, strings.Contains(m.View(), "PRESS SPACE"))
}
