// Package cli implements the wrapped command line.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/retrowrapped/wrapped/internal/config"
	"github.com/retrowrapped/wrapped/internal/db"
	"github.com/retrowrapped/wrapped/internal/logging"
	"github.com/retrowrapped/wrapped/internal/settings"
)

var (
	cfgFile        string
	logLevel       string
	nonInteractive bool
	projectDir     string
	jsonOutput     bool
	noProgress     bool

	appConfig *config.Config
	logFile   *os.File
)

// Version is set at build time.
var Version = "dev"

var rootCmd = &cobra.Command{
	Use:   "wrapped",
	Short: "Your year in music as a retro terminal slideshow",
	Long: `wrapped plays a music recap in the terminal: typed headlines, a quiz,
a drumroll for the top artist and a few charts.

Run without a subcommand to open the player on the default deck.`,
	Version:           Version,
	SilenceUsage:      true,
	SilenceErrors:     true,
	Args:              cobra.NoArgs,
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logFile != nil {
			_ = logFile.Close()
			logFile = nil
		}
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runPlay(cmd.Context(), "")
	},
}

func init() {
	// Assigned here: setup refers back to rootCmd.
	rootCmd.PersistentPreRunE = setup

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default $XDG_CONFIG_HOME/wrapped/config.yaml)")
	flags.StringVar(&logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	flags.BoolVar(&nonInteractive, "non-interactive", false, "never open the player or prompt")
	flags.StringVar(&projectDir, "project", "", "project directory searched for .wrapped/decks (default: current directory)")
	flags.BoolVar(&jsonOutput, "json", false, "write machine-readable JSON")
	flags.BoolVar(&noProgress, "no-progress", false, "hide progress lines on stderr")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	if strings.TrimSpace(logLevel) != "" {
		cfg.Log.Level = logLevel
	}
	appConfig = cfg

	// The player owns the terminal, so its logs go to a file.
	var out io.Writer = os.Stderr
	if playsInTerminal(cmd) {
		file, err := logging.OpenFile(cfg.LogFilePath())
		if err != nil {
			return err
		}
		logFile = file
		out = file
	}
	return logging.Init(logging.Config{Level: cfg.Log.Level, Format: cfg.Log.Format, Output: out})
}

func playsInTerminal(cmd *cobra.Command) bool {
	return (cmd == rootCmd || cmd == playCmd) && IsInteractive()
}

// GetConfig returns the loaded configuration, or defaults before setup.
func GetConfig() *config.Config {
	if appConfig == nil {
		return config.Default()
	}
	return appConfig
}

// IsJSONOutput reports whether --json was given.
func IsJSONOutput() bool {
	return jsonOutput
}

// WriteOutput writes value as indented JSON.
func WriteOutput(out io.Writer, value any) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

// PreflightError is returned when a command cannot run in the current
// environment. Hint and NextStep are printed under the message.
type PreflightError struct {
	Message  string
	Hint     string
	NextStep string
}

func (e *PreflightError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	if e.Hint != "" {
		fmt.Fprintf(&b, "\n  hint: %s", e.Hint)
	}
	if e.NextStep != "" {
		fmt.Fprintf(&b, "\n  try:  %s", e.NextStep)
	}
	return b.String()
}

func resolveProjectDir() string {
	if strings.TrimSpace(projectDir) != "" {
		return projectDir
	}
	wd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return wd
}

// openDatabase opens and migrates the database in the configured data dir
// and points the settings store at it.
func openDatabase(ctx context.Context) (*db.DB, error) {
	database, err := db.Open(GetConfig().DataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := database.MigrateUp(ctx); err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	if err := settings.Init(ctx, db.NewPreferenceRepository(database)); err != nil {
		_ = database.Close()
		return nil, err
	}
	return database, nil
}
