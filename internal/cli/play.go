package cli

import (
	"context"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/retrowrapped/wrapped/internal/db"
	"github.com/retrowrapped/wrapped/internal/logging"
	"github.com/retrowrapped/wrapped/internal/pages"
	"github.com/retrowrapped/wrapped/internal/sequences"
	"github.com/retrowrapped/wrapped/internal/sound"
	"github.com/retrowrapped/wrapped/internal/tui"
)

var (
	playVars  []string
	playTheme string
)

func init() {
	rootCmd.AddCommand(playCmd)

	playCmd.Flags().StringSliceVar(&playVars, "var", nil, "deck variable (key=value, repeatable)")
	playCmd.Flags().StringVar(&playTheme, "theme", "", "override tui.theme")
}

var playCmd = &cobra.Command{
	Use:   "play [deck]",
	Short: "Open the player",
	Long: `Open the player on a deck. The deck is a name from the search paths
(project .wrapped/decks, ~/.config/wrapped/decks, builtin) or a path to a
YAML file. Without an argument the configured tui.deck is played.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ref := ""
		if len(args) == 1 {
			ref = args[0]
		}
		return runPlay(cmd.Context(), ref)
	},
}

func runPlay(ctx context.Context, ref string) error {
	if IsNonInteractive() {
		return &PreflightError{
			Message:  "the player requires an interactive terminal",
			Hint:     "Run without --non-interactive and with a TTY, or rehearse the deck headlessly",
			NextStep: "wrapped rehearse " + deckRef(ref),
		}
	}

	cfg := GetConfig()
	deck, err := sequences.ResolveSequence(resolveProjectDir(), deckRef(ref))
	if err != nil {
		return err
	}
	vars, err := parseSequenceVars(playVars)
	if err != nil {
		return err
	}

	database, err := openDatabase(ctx)
	if err != nil {
		return err
	}
	defer database.Close()

	theme := cfg.TUI.Theme
	if playTheme != "" {
		theme = playTheme
	}

	logger := logging.Component("cli")
	logger.Info().
		Str("deck", deck.Name).
		Str("source", deck.Source).
		Str("theme", theme).
		Msg("opening player")

	return tui.RunWithConfig(tui.Config{
		Context:     ctx,
		Deck:        deck,
		Vars:        vars,
		Theme:       theme,
		Timing:      cfg.SequencerTiming(),
		LandingFade: cfg.Timing.LandingFade,
		AdvanceKey:  cfg.TUI.AdvanceKey,
		Sounds: sound.NewPlayer(os.Stderr, sound.Options{
			Enabled:    cfg.Sound.Enabled,
			TypingBell: cfg.Sound.TypingBell,
		}),
		History: db.NewEventRepository(database),
		About:   loadPage(pages.About, pageVars(deck, vars)),
		Contact: loadPage(pages.Contact, pageVars(deck, vars)),
	})
}

// pageVars exposes the deck's brand, the deck name and the version to the
// popup pages.
func pageVars(deck *sequences.Sequence, vars map[string]string) map[string]string {
	out := map[string]string{"deck": deck.Name, "version": Version}
	for _, variable := range deck.Variables {
		if variable.Name == "brand" && variable.Default != "" {
			out["brand"] = variable.Default
		}
	}
	if brand := vars["brand"]; brand != "" {
		out["brand"] = brand
	}
	return out
}

// loadPage renders a popup page. Failures leave the popup with its
// placeholder rather than blocking the player.
func loadPage(name string, vars map[string]string) tui.Page {
	logger := logging.Component("cli")
	page, err := pages.ResolvePage(resolveProjectDir(), name)
	if err != nil {
		logger.Warn().Err(err).Str("page", name).Msg("page unavailable")
		return tui.Page{}
	}
	body, err := pages.RenderPage(page, vars)
	if err != nil {
		logger.Warn().Err(err).Str("page", name).Msg("page does not render")
		return tui.Page{Title: page.Title}
	}
	return tui.Page{Title: page.Title, Markdown: body}
}

// deckRef falls back to the configured deck.
func deckRef(ref string) string {
	if ref != "" {
		return ref
	}
	if deck := GetConfig().TUI.Deck; deck != "" {
		return deck
	}
	return sequences.DefaultSequenceName
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
