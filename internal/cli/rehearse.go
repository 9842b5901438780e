package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/retrowrapped/wrapped/internal/db"
	"github.com/retrowrapped/wrapped/internal/events"
	"github.com/retrowrapped/wrapped/internal/models"
	"github.com/retrowrapped/wrapped/internal/rehearsal"
	"github.com/retrowrapped/wrapped/internal/sequences"
)

var (
	rehearseResults  []string
	rehearseVars     []string
	rehearseMaxSteps int
	rehearseRecord   bool
)

func init() {
	rootCmd.AddCommand(rehearseCmd)

	rehearseCmd.Flags().StringSliceVar(&rehearseResults, "result", nil, "result a view reports (view-or-step=result, repeatable)")
	rehearseCmd.Flags().StringSliceVar(&rehearseVars, "var", nil, "deck variable (key=value, repeatable)")
	rehearseCmd.Flags().IntVar(&rehearseMaxSteps, "max-steps", rehearsal.DefaultMaxSteps, "stop after this many steps")
	rehearseCmd.Flags().BoolVar(&rehearseRecord, "record", false, "store the rehearsal in play history")
}

var rehearseCmd = &cobra.Command{
	Use:   "rehearse [deck]",
	Short: "Dry-run a deck without a terminal",
	Long: `Play a deck on a virtual clock and print every step with the time a
viewer would reach it. Input steps are answered with the advance key and
views complete at once, reporting the result given with --result.`,
	Example: `  wrapped rehearse
  wrapped rehearse quick-tour --result quiz=correct
  wrapped rehearse ./my-deck.yaml --result artist-quiz=incorrect --json`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}
		seq, err := sequences.ResolveSequence(resolveProjectDir(), deckRef(ref))
		if err != nil {
			return err
		}
		vars, err := parseSequenceVars(rehearseVars)
		if err != nil {
			return err
		}
		results, err := parseSequenceVars(rehearseResults)
		if err != nil {
			return err
		}
		script, err := sequences.RenderSequence(seq, vars)
		if err != nil {
			return err
		}

		cfg := GetConfig()
		rc := rehearsal.Config{
			Timing:     cfg.SequencerTiming(),
			AdvanceKey: cfg.TUI.AdvanceKey,
			Results:    results,
			MaxSteps:   rehearseMaxSteps,
		}

		if rehearseRecord {
			database, err := openDatabase(cmd.Context())
			if err != nil {
				return err
			}
			defer database.Close()

			recorder := events.NewRecorder(cmd.Context(), db.NewEventRepository(database), seq.Name, seq.Source, models.PlayModeRehearsal)
			recorder.Begin(len(script.Steps))
			rc.Observer = recorder.Observe
		}

		timeline, runErr := rehearsal.Run(script, rc)
		if timeline == nil {
			return runErr
		}
		if err := printTimeline(cmd, timeline); err != nil {
			return err
		}
		if errors.Is(runErr, rehearsal.ErrStepLimit) {
			return fmt.Errorf("%w (raise --max-steps if the deck loops on purpose)", runErr)
		}
		return runErr
	},
}

// TimelineEntry is one row of `wrapped rehearse --json`.
type TimelineEntry struct {
	Offset   string `json:"offset"`
	Event    string `json:"event"`
	StepID   string `json:"step_id,omitempty"`
	StepKind string `json:"step_kind,omitempty"`
	Detail   string `json:"detail,omitempty"`
}

// TimelineOutput is the payload of `wrapped rehearse --json`.
type TimelineOutput struct {
	Deck      string          `json:"deck"`
	Completed bool            `json:"completed"`
	Duration  string          `json:"duration"`
	Visited   []string        `json:"visited"`
	Entries   []TimelineEntry `json:"entries"`
}

func timelineOutput(timeline *rehearsal.Timeline) TimelineOutput {
	out := TimelineOutput{
		Deck:      timeline.Script,
		Completed: timeline.Completed,
		Duration:  formatDuration(timeline.Duration),
		Visited:   timeline.Visited(),
		Entries:   make([]TimelineEntry, 0, len(timeline.Entries)),
	}
	for _, entry := range timeline.Entries {
		row := TimelineEntry{
			Offset: formatDuration(entry.Offset),
			Event:  entry.Kind.String(),
			StepID: entry.StepID,
			Detail: entry.Detail,
		}
		if entry.StepID != "" {
			row.StepKind = entry.StepKind.String()
		}
		out.Entries = append(out.Entries, row)
	}
	return out
}

func printTimeline(cmd *cobra.Command, timeline *rehearsal.Timeline) error {
	output := timelineOutput(timeline)
	out := cmd.OutOrStdout()
	if IsJSONOutput() {
		return WriteOutput(out, output)
	}

	rows := make([][]string, 0, len(output.Entries))
	for _, entry := range output.Entries {
		rows = append(rows, []string{entry.Offset, entry.Event, entry.StepID, entry.StepKind, entry.Detail})
	}
	if err := writeTable(out, []string{"AT", "EVENT", "STEP", "KIND", "DETAIL"}, rows, alignRight); err != nil {
		return err
	}

	status := "completed"
	if !output.Completed {
		status = "stopped"
	}
	fmt.Fprintf(out, "%s %s in %s, %d steps visited\n", output.Deck, status, output.Duration, len(output.Visited))
	return nil
}
