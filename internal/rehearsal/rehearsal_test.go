package rehearsal

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/sequences"
)

func quickTour(t *testing.T) sequencer.Script {
	t.Helper()
	seq, err := sequences.ResolveSequence("", "quick-tour")
	require.NoError(t, err)
	script, err := sequences.RenderSequence(seq, nil)
	require.NoError(t, err)
	return script
}

func TestRunFollowsResults(t *testing.T) {
	tests := []struct {
		name    string
		results map[string]string
		want    []string
	}{
		{"no result falls back to next", nil, []string{"hello", "pick", "wrong"}},
		{"view name", map[string]string{"quiz": "correct"}, []string{"hello", "pick", "right"}},
		{"step id wins", map[string]string{"quiz": "incorrect", "pick": "correct"}, []string{"hello", "pick", "right"}},
		{"unknown result", map[string]string{"pick": "maybe"}, []string{"hello", "pick", "wrong"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			timeline, err := Run(quickTour(t), Config{Results: tt.results})
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if diff := cmp.Diff(tt.want, timeline.Visited()); diff != "" {
				t.Fatalf("visited mismatch (-want +got):\n%s", diff)
			}
			if !timeline.Completed {
				t.Fatalf("expected completed timeline")
			}
		})
	}
}

func TestRunTimelineIsOrdered(t *testing.T) {
	var observed []sequencer.TransitionKind
	timeline, err := Run(quickTour(t), Config{
		Results:  map[string]string{"quiz": "correct"},
		Observer: func(tr sequencer.Transition) { observed = append(observed, tr.Kind) },
	})
	require.NoError(t, err)

	require.Len(t, observed, len(timeline.Entries))
	require.Equal(t, sequencer.TransitionEntered, timeline.Entries[0].Kind)
	require.Zero(t, timeline.Entries[0].Offset)

	for i := 1; i < len(timeline.Entries); i++ {
		require.GreaterOrEqual(t, timeline.Entries[i].Offset, timeline.Entries[i-1].Offset)
	}

	last := timeline.Entries[len(timeline.Entries)-1]
	require.Equal(t, sequencer.TransitionCompleted, last.Kind)

	timing := sequencer.DefaultTiming()
	require.Equal(t, last.Offset+timing.CompleteDelay, timeline.Duration)

	var exits []string
	for _, entry := range timeline.Entries {
		if entry.Kind == sequencer.TransitionExited {
			exits = append(exits, entry.StepID+":"+entry.Detail)
		}
		if entry.Kind == sequencer.TransitionEntered && entry.StepID == "pick" {
			require.Equal(t, "quiz", entry.Detail)
		}
	}
	require.Equal(t, []string{"hello:input space", "pick:completion correct", "right:timer"}, exits)
}

func TestRunAutoStepTiming(t *testing.T) {
	script := sequencer.Script{
		Name: "timed",
		Steps: []sequencer.Step{
			{
				ID:      "stats",
				Kind:    sequencer.StepView,
				View:    sequencer.ViewRef{Name: "stats"},
				Advance: sequencer.AdvancePolicy{Mode: sequencer.AdvanceAuto, After: 5 * time.Second},
			},
		},
	}
	timing := sequencer.DefaultTiming()

	timeline, err := Run(script, Config{Timing: timing})
	require.NoError(t, err)

	var exitedAt time.Duration
	for _, entry := range timeline.Entries {
		if entry.Kind == sequencer.TransitionExited {
			exitedAt = entry.Offset
		}
	}
	require.Equal(t, timing.ViewFadeIn+5*time.Second, exitedAt)
}

func TestRunStepLimit(t *testing.T) {
	script := sequencer.Script{
		Name: "loop",
		Steps: []sequencer.Step{
			{
				ID:       "again",
				Kind:     sequencer.StepView,
				View:     sequencer.ViewRef{Name: "quiz"},
				Advance:  sequencer.AdvancePolicy{Mode: sequencer.AdvanceOnSignal},
				Branches: map[string]string{"loop": "again"},
			},
		},
	}

	timeline, err := Run(script, Config{Results: map[string]string{"again": "loop"}, MaxSteps: 5})
	if !errors.Is(err, ErrStepLimit) {
		t.Fatalf("expected ErrStepLimit, got %v", err)
	}
	require.NotNil(t, timeline)
	require.False(t, timeline.Completed)
	require.Len(t, timeline.Visited(), 5)
	require.Equal(t, sequencer.TransitionStopped, timeline.Entries[len(timeline.Entries)-1].Kind)
}

func TestRunStepLimitIsExact(t *testing.T) {
	script := sequencer.Script{
		Name: "three",
		Steps: []sequencer.Step{
			{ID: "a", Kind: sequencer.StepMessage, Text: "A", Advance: sequencer.OnInput()},
			{ID: "b", Kind: sequencer.StepMessage, Text: "B", Advance: sequencer.OnInput()},
			{ID: "c", Kind: sequencer.StepMessage, Text: "C", Advance: sequencer.OnInput()},
		},
	}

	timeline, err := Run(script, Config{MaxSteps: 3})
	require.NoError(t, err)
	require.True(t, timeline.Completed)
	require.Equal(t, []string{"a", "b", "c"}, timeline.Visited())

	timeline, err = Run(script, Config{MaxSteps: 2})
	require.ErrorIs(t, err, ErrStepLimit)
	require.Equal(t, []string{"a", "b"}, timeline.Visited())
}

func TestRunRejectsInvalidScript(t *testing.T) {
	if _, err := Run(sequencer.Script{Name: "empty"}, Config{}); err == nil {
		t.Fatal("expected error for empty script")
	}
}
