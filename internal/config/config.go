// Package config loads wrapped settings from file, environment and defaults.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/retrowrapped/wrapped/internal/sequencer"
)

// EnvPrefix is prepended to every environment override.
const EnvPrefix = "WRAPPED"

// Config holds application configuration.
type Config struct {
	DataDir string       `mapstructure:"data_dir"`
	Log     LogConfig    `mapstructure:"log"`
	TUI     TUIConfig    `mapstructure:"tui"`
	Timing  TimingConfig `mapstructure:"timing"`
	Sound   SoundConfig  `mapstructure:"sound"`
}

// LogConfig controls the zerolog setup.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`

	// File receives logs while the TUI owns the terminal. Relative paths
	// are resolved against DataDir.
	File string `mapstructure:"file"`
}

// TUIConfig holds presentation settings.
type TUIConfig struct {
	Theme      string `mapstructure:"theme"`
	Deck       string `mapstructure:"deck"`
	AdvanceKey string `mapstructure:"advance_key"`
}

// TimingConfig mirrors sequencer.Timing.
type TimingConfig struct {
	MessageFadeOut time.Duration `mapstructure:"message_fade_out"`
	ViewFadeOut    time.Duration `mapstructure:"view_fade_out"`
	MessageFadeIn  time.Duration `mapstructure:"message_fade_in"`
	ViewFadeIn     time.Duration `mapstructure:"view_fade_in"`
	TypeInterval   time.Duration `mapstructure:"type_interval"`
	CompleteDelay  time.Duration `mapstructure:"complete_delay"`
	LandingFade    time.Duration `mapstructure:"landing_fade"`
}

// SoundConfig controls the terminal bell effects.
type SoundConfig struct {
	Enabled    bool `mapstructure:"enabled"`
	TypingBell bool `mapstructure:"typing_bell"`
}

// Themes accepted by tui.theme.
var Themes = []string{"retro", "mono", "high-contrast"}

// DefaultConfigPath returns $XDG_CONFIG_HOME/wrapped/config.yaml.
func DefaultConfigPath() string {
	return filepath.Join(configHome(), "wrapped", "config.yaml")
}

// DefaultDataDir returns $XDG_DATA_HOME/wrapped.
func DefaultDataDir() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_DATA_HOME")); dir != "" {
		return filepath.Join(dir, "wrapped")
	}
	return filepath.Join(homeDir(), ".local", "share", "wrapped")
}

// Load reads configuration. An explicit path must exist; otherwise
// WRAPPED_CONFIG and then the default path are tried, and a missing file
// just means defaults.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	explicit := strings.TrimSpace(path)
	if explicit == "" {
		explicit = strings.TrimSpace(os.Getenv(EnvPrefix + "_CONFIG"))
	}
	if explicit != "" {
		v.SetConfigFile(explicit)
	} else {
		v.AddConfigPath(filepath.Join(configHome(), "wrapped"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if explicit != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns the configuration used when nothing is set.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	cfg.normalize()
	return &cfg
}

func setDefaults(v *viper.Viper) {
	timing := sequencer.DefaultTiming()

	v.SetDefault("data_dir", DefaultDataDir())
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.file", "wrapped.log")
	v.SetDefault("tui.theme", "retro")
	v.SetDefault("tui.deck", "wrapped-2024")
	v.SetDefault("tui.advance_key", sequencer.DefaultAdvanceKey)
	v.SetDefault("timing.message_fade_out", timing.MessageFadeOut)
	v.SetDefault("timing.view_fade_out", timing.ViewFadeOut)
	v.SetDefault("timing.message_fade_in", timing.MessageFadeIn)
	v.SetDefault("timing.view_fade_in", timing.ViewFadeIn)
	v.SetDefault("timing.type_interval", timing.TypeInterval)
	v.SetDefault("timing.complete_delay", timing.CompleteDelay)
	v.SetDefault("timing.landing_fade", 500*time.Millisecond)
	v.SetDefault("sound.enabled", true)
	v.SetDefault("sound.typing_bell", false)
}

func (c *Config) normalize() {
	c.DataDir = expandHome(strings.TrimSpace(c.DataDir))
	c.Log.Level = strings.ToLower(strings.TrimSpace(c.Log.Level))
	c.Log.Format = strings.ToLower(strings.TrimSpace(c.Log.Format))
	c.Log.File = expandHome(strings.TrimSpace(c.Log.File))
	c.TUI.Theme = strings.ToLower(strings.TrimSpace(c.TUI.Theme))
	c.TUI.Deck = strings.TrimSpace(c.TUI.Deck)
	c.TUI.AdvanceKey = sequencer.NormalizeKey(c.TUI.AdvanceKey)
}

// Validate rejects settings the player cannot run with.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data_dir is required")
	}
	if !isTheme(c.TUI.Theme) {
		return fmt.Errorf("unknown tui.theme %q (want one of %s)", c.TUI.Theme, strings.Join(Themes, ", "))
	}
	if c.TUI.AdvanceKey == "" {
		return fmt.Errorf("tui.advance_key is required")
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log.format %q", c.Log.Format)
	}

	durations := []struct {
		key   string
		value time.Duration
	}{
		{"timing.message_fade_out", c.Timing.MessageFadeOut},
		{"timing.view_fade_out", c.Timing.ViewFadeOut},
		{"timing.message_fade_in", c.Timing.MessageFadeIn},
		{"timing.view_fade_in", c.Timing.ViewFadeIn},
		{"timing.type_interval", c.Timing.TypeInterval},
		{"timing.complete_delay", c.Timing.CompleteDelay},
		{"timing.landing_fade", c.Timing.LandingFade},
	}
	for _, d := range durations {
		if d.value <= 0 {
			return fmt.Errorf("%s must be greater than 0", d.key)
		}
	}
	return nil
}

// SequencerTiming converts the timing block for the sequencer.
func (c *Config) SequencerTiming() sequencer.Timing {
	return sequencer.Timing{
		MessageFadeOut: c.Timing.MessageFadeOut,
		ViewFadeOut:    c.Timing.ViewFadeOut,
		MessageFadeIn:  c.Timing.MessageFadeIn,
		ViewFadeIn:     c.Timing.ViewFadeIn,
		TypeInterval:   c.Timing.TypeInterval,
		CompleteDelay:  c.Timing.CompleteDelay,
	}
}

// LogFilePath resolves Log.File against DataDir.
func (c *Config) LogFilePath() string {
	if c.Log.File == "" {
		return ""
	}
	if filepath.IsAbs(c.Log.File) {
		return c.Log.File
	}
	return filepath.Join(c.DataDir, c.Log.File)
}

func isTheme(name string) bool {
	for _, theme := range Themes {
		if theme == name {
			return true
		}
	}
	return false
}

func configHome() string {
	if dir := strings.TrimSpace(os.Getenv("XDG_CONFIG_HOME")); dir != "" {
		return dir
	}
	return filepath.Join(homeDir(), ".config")
}

func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}

func expandHome(path string) string {
	if path == "~" {
		return homeDir()
	}
	if strings.HasPrefix(path, "~/") {
		return filepath.Join(homeDir(), path[2:])
	}
	return path
}
