package cli

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrowrapped/wrapped/internal/pages"
	"github.com/retrowrapped/wrapped/internal/rehearsal"
	"github.com/retrowrapped/wrapped/internal/sequences"
	"github.com/retrowrapped/wrapped/internal/settings"
)

// runCLI executes the root command in an isolated environment. Flag
// variables are reset first because cobra keeps them between executions.
func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "config"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("WRAPPED_CONFIG", "")
	t.Setenv("WRAPPED_NO_PROGRESS", "1")

	cfgFile, logLevel, projectDir = "", "", dir
	nonInteractive, jsonOutput, noProgress = true, false, false
	rehearseMaxSteps, rehearseRecord = rehearsal.DefaultMaxSteps, false
	historyLimit = 20
	playVars, playTheme = nil, ""
	rehearseResults, rehearseVars = nil, nil
	decksTags, decksNewUser, decksForce = nil, false, false
	initForce = false
	appConfig = nil

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		_ = settings.Init(t.Context(), nil)
	})

	err := rootCmd.Execute()
	return out.String(), err
}

func TestPlayRequiresTerminal(t *testing.T) {
	_, err := runCLI(t, "play", "--non-interactive")
	var preflight *PreflightError
	require.ErrorAs(t, err, &preflight)
	require.Contains(t, preflight.NextStep, "wrapped rehearse wrapped-2024")
}

func TestDecksListJSON(t *testing.T) {
	out, err := runCLI(t, "decks", "list", "--json")
	require.NoError(t, err)

	var decks []struct{ Name string }
	require.NoError(t, json.Unmarshal([]byte(out), &decks))

	names := make([]string, 0, len(decks))
	for _, deck := range decks {
		names = append(names, deck.Name)
	}
	require.Contains(t, names, "wrapped-2024")
	require.Contains(t, names, "quick-tour")
}

func TestDecksShow(t *testing.T) {
	out, err := runCLI(t, "decks", "show", "quick-tour")
	require.NoError(t, err)
	require.Contains(t, out, "Deck:   quick-tour")
	require.Contains(t, out, "[view:quiz] pick")
}

func TestDecksNewScaffoldsLoadableDeck(t *testing.T) {
	out, err := runCLI(t, "decks", "new", "Mine")
	require.NoError(t, err)
	require.Contains(t, out, filepath.Join(".wrapped", "decks", "mine.yaml"))

	_, err = rootCmd.ExecuteC()
	require.Error(t, err, "second scaffold without --force must fail")
}

func TestRehearseJSON(t *testing.T) {
	out, err := runCLI(t, "rehearse", "quick-tour", "--result", "quiz=correct", "--json")
	require.NoError(t, err)

	var timeline TimelineOutput
	require.NoError(t, json.Unmarshal([]byte(out), &timeline))
	require.True(t, timeline.Completed)
	require.Equal(t, []string{"hello", "pick", "right"}, timeline.Visited)
	require.Equal(t, "entered", timeline.Entries[0].Event)
	require.Equal(t, "0s", timeline.Entries[0].Offset)
}

func TestRehearseTableRecordsHistory(t *testing.T) {
	out, err := runCLI(t, "rehearse", "quick-tour", "--record")
	require.NoError(t, err)
	require.Contains(t, out, "quick-tour completed")
	require.Contains(t, out, "wrong")
}

func TestSoundCommand(t *testing.T) {
	out, err := runCLI(t, "sound", "off", "--json")
	require.NoError(t, err)

	var status SoundStatus
	require.NoError(t, json.Unmarshal([]byte(out), &status))
	require.True(t, status.Muted)
	require.Equal(t, settings.SoundMuted, status.State)

	_, err = runCLI(t, "sound", "loud")
	require.Error(t, err)
}

func TestHistoryEmpty(t *testing.T) {
	out, err := runCLI(t, "history")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "No plays yet."))
}

func TestPreflightErrorMessage(t *testing.T) {
	err := &PreflightError{Message: "nope", Hint: "do this", NextStep: "wrapped init"}
	require.Equal(t, "nope\n  hint: do this\n  try:  wrapped init", err.Error())
}

func TestLoadPageUsesDeckBrand(t *testing.T) {
	projectDir = t.TempDir()
	deck := &sequences.Sequence{
		Name:      "mine",
		Variables: []sequences.SequenceVar{{Name: "brand", Default: "tidal"}},
	}

	page := loadPage(pages.About, pageVars(deck, nil))
	require.Equal(t, "ABOUT", page.Title)
	require.Contains(t, page.Markdown, "TIDAL WRAPPED")

	page = loadPage(pages.About, pageVars(deck, map[string]string{"brand": "deezer"}))
	require.Contains(t, page.Markdown, "DEEZER WRAPPED")

	require.Empty(t, loadPage("missing", nil).Markdown)
}
