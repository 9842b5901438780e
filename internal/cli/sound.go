package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retrowrapped/wrapped/internal/settings"
)

func init() {
	rootCmd.AddCommand(soundCmd)
}

var soundCmd = &cobra.Command{
	Use:       "sound [on|off|status]",
	Short:     "Show or change the persisted mute state",
	Long:      "Show or change whether the player rings the terminal bell. The player's m key toggles the same setting.",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off", "status"},
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "status"
		if len(args) == 1 {
			action = strings.ToLower(strings.TrimSpace(args[0]))
		}

		database, err := openDatabase(cmd.Context())
		if err != nil {
			return err
		}
		defer database.Close()

		switch action {
		case "status":
		case "on":
			err = settings.SetMuted(cmd.Context(), false)
		case "off":
			err = settings.SetMuted(cmd.Context(), true)
		default:
			return fmt.Errorf("unknown sound action %q (want on, off or status)", action)
		}
		if err != nil {
			return err
		}

		state := SoundStatus{
			State:   settings.StateLabel(settings.Muted()),
			Muted:   settings.Muted(),
			Enabled: GetConfig().Sound.Enabled,
		}
		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, state)
		}
		fmt.Fprintf(out, "Sound: %s\n", state.State)
		if !state.Enabled {
			fmt.Fprintln(out, "Note: sound.enabled is false in the config, so the player stays silent.")
		}
		return nil
	},
}

// SoundStatus is the payload of `wrapped sound --json`.
type SoundStatus struct {
	State   string `json:"state"`
	Muted   bool   `json:"muted"`
	Enabled bool   `json:"enabled"`
}
