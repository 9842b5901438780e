package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/retrowrapped/wrapped/internal/config"
)

var (
	initForce bool

	configDirFunc = defaultConfigDir
)

func init() {
	rootCmd.AddCommand(initCmd)

	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite an existing config file")
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config and prepare the data directory",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		results := []initResult{
			createConfigFile(),
			prepareDataDir(cmd.Context(), newStageWriter(cmd.ErrOrStderr())),
			checkTerminal(),
		}

		out := cmd.OutOrStdout()
		if IsJSONOutput() {
			return WriteOutput(out, results)
		}

		failed := false
		for _, r := range results {
			fmt.Fprintf(out, "%-8s %-12s %s\n", "["+r.Status+"]", r.Name, r.Message)
			if r.Status == "failed" {
				failed = true
			}
		}
		if failed {
			return fmt.Errorf("init did not finish")
		}
		fmt.Fprintln(out, "\nRun `wrapped` to open the player.")
		return nil
	},
}

type initResult struct {
	Name    string `json:"name"`
	Status  string `json:"status"` // done, skipped or failed
	Message string `json:"message"`
}

func defaultConfigDir() string {
	return filepath.Dir(config.DefaultConfigPath())
}

func createConfigFile() initResult {
	result := initResult{Name: "config"}
	dir := configDirFunc()
	path := filepath.Join(dir, "config.yaml")

	if _, err := os.Stat(path); err == nil && !initForce {
		result.Status = "skipped"
		result.Message = path + " already exists (use --force to overwrite)"
		return result
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		result.Status = "failed"
		result.Message = err.Error()
		return result
	}
	if err := os.WriteFile(path, []byte(configTemplate), 0o644); err != nil {
		result.Status = "failed"
		result.Message = err.Error()
		return result
	}

	result.Status = "done"
	result.Message = "wrote " + path
	return result
}

func prepareDataDir(ctx context.Context, stages *stageWriter) initResult {
	result := initResult{Name: "database"}

	var path string
	var version int
	err := stages.run("Migrating database", func() error {
		database, err := openDatabase(ctx)
		if err != nil {
			return err
		}
		defer database.Close()

		path = database.Path()
		version, err = database.SchemaVersion(ctx)
		return err
	})
	if err != nil {
		result.Status = "failed"
		result.Message = err.Error()
		return result
	}

	result.Status = "done"
	result.Message = fmt.Sprintf("%s at schema v%d", path, version)
	return result
}

func checkTerminal() initResult {
	result := initResult{Name: "terminal"}
	if !hasTTY() {
		result.Status = "skipped"
		result.Message = "no TTY here; the player needs one, rehearse works anywhere"
		return result
	}
	result.Status = "done"
	result.Message = "interactive terminal detected"
	if os.Getenv("TERM") == "dumb" {
		result.Message += " (TERM=dumb, colors will be off)"
	}
	return result
}

const configTemplate = `# wrapped configuration file
# Every key can also be set as an environment variable, e.g.
# WRAPPED_TUI_THEME=mono or WRAPPED_TIMING_TYPE_INTERVAL=30ms.

# data_dir: ~/.local/share/wrapped

log:
  level: info        # debug, info, warn, error
  format: console    # console or json
  file: wrapped.log  # relative to data_dir; the player logs here

tui:
  theme: retro       # retro, mono, high-contrast
  deck: wrapped-2024
  advance_key: space

timing:
  message_fade_out: 500ms
  view_fade_out: 1s
  message_fade_in: 200ms
  view_fade_in: 1s
  type_interval: 45ms
  complete_delay: 500ms
  landing_fade: 500ms

sound:
  enabled: true
  typing_bell: false # ring on every typed character
`
