package cli

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/retrowrapped/wrapped/internal/db"
	"github.com/retrowrapped/wrapped/internal/models"
)

var historyLimit int

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "number of plays to show")
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent plays",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if historyLimit <= 0 {
			return fmt.Errorf("--limit must be greater than 0")
		}

		database, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		plays, err := db.NewEventRepository(database).RecentPlays(cmd.Context(), historyLimit)
		if err != nil {
			return fmt.Errorf("failed to load history: %w", err)
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			entries := make([]HistoryEntry, 0, len(plays))
			for _, play := range plays {
				entries = append(entries, historyEntry(play))
			}
			return WriteOutput(out, entries)
		}
		if len(plays) == 0 {
			fmt.Fprintln(out, "No plays yet. Run `wrapped` to start one.")
			return nil
		}

		rows := make([][]string, 0, len(plays))
		for _, play := range plays {
			duration := "-"
			if play.Finished() {
				duration = formatDuration(play.Duration())
			}
			rows = append(rows, []string{
				play.StartedAt.Local().Format("2006-01-02 15:04"),
				play.Deck,
				formatPlayStatus(play),
				strconv.Itoa(play.StepsVisited),
				duration,
			})
		}
		return writeTable(out, []string{"STARTED", "DECK", "STATUS", "STEPS", "DURATION"}, rows,
			alignLeft, alignLeft, alignLeft, alignRight, alignRight)
	},
}

// HistoryEntry is one row of `wrapped history --json`.
type HistoryEntry struct {
	PlayID       string     `json:"play_id"`
	Deck         string     `json:"deck"`
	Mode         string     `json:"mode"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	Completed    bool       `json:"completed"`
	StepsVisited int        `json:"steps_visited"`
}

func historyEntry(play *models.PlaySummary) HistoryEntry {
	return HistoryEntry{
		PlayID:       play.PlayID,
		Deck:         play.Deck,
		Mode:         string(play.Mode),
		StartedAt:    play.StartedAt,
		FinishedAt:   play.FinishedAt,
		Completed:    play.Completed,
		StepsVisited: play.StepsVisited,
	}
}
