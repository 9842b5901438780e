package components

import (
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

type countingSounds struct {
	selects int
}

func (c *countingSounds) PlayTypingTick() error { return nil }
func (c *countingSounds) PlayConfirm() error    { return nil }
func (c *countingSounds) PlaySelect() error {
	c.selects++
	return nil
}

type slideHarness struct {
	sched   *sequencer.ManualScheduler
	sounds  *countingSounds
	results []string
	env     Env
}

func newSlideHarness() *slideHarness {
	h := &slideHarness{
		sched:  sequencer.NewManualScheduler(time.Unix(0, 0)),
		sounds: &countingSounds{},
	}
	h.env = Env{
		Scheduler:  h.sched,
		Sounds:     h.sounds,
		AdvanceKey: "space",
		Done:       func(result string) { h.results = append(h.results, result) },
	}
	return h
}

func (h *slideHarness) build(t *testing.T, name string, params map[string]string) Slide {
	t.Helper()
	slide, err := New(sequencer.ViewRef{Name: name, Params: params}, h.env)
	require.NoError(t, err)
	return slide
}

func TestNewUnknownView(t *testing.T) {
	_, err := New(sequencer.ViewRef{Name: "karaoke"}, Env{})
	require.ErrorIs(t, err, ErrUnknownView)
	require.Equal(t, []string{"albums", "chart", "list", "quiz", "stats", "winner"}, Names())
}

func TestQuizReportsResult(t *testing.T) {
	tests := []struct {
		name string
		keys []string
		want string
	}{
		{"digit correct", []string{"2", "space"}, ResultCorrect},
		{"digit incorrect", []string{"1", "space"}, ResultIncorrect},
		{"arrows wrap", []string{"up", "enter"}, ResultIncorrect},
		{"letters", []string{"b", "space"}, ResultCorrect},
		{"arrows", []string{"down", "down", "space"}, ResultCorrect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newSlideHarness()
			quiz := h.build(t, "quiz", map[string]string{
				"question": "WHO?",
				"choices":  "BILLIE EILISH|TAYLOR SWIFT|DRAKE",
				"answer":   "taylor swift",
			})
			for _, key := range tt.keys {
				require.True(t, quiz.HandleKey(key), "key %q should be consumed", key)
			}
			require.Equal(t, []string{tt.want}, h.results)
		})
	}
}

func TestQuizRequiresSelection(t *testing.T) {
	h := newSlideHarness()
	quiz := h.build(t, "quiz", map[string]string{"choices": "A|B", "answer": "A"})

	require.True(t, quiz.HandleKey("space"))
	require.Empty(t, h.results)

	require.True(t, quiz.HandleKey("1"))
	require.True(t, quiz.HandleKey("1"))
	require.Equal(t, 1, h.sounds.selects, "re-selecting the same choice is silent")

	require.True(t, quiz.HandleKey("space"))
	require.True(t, quiz.HandleKey("space"))
	require.Equal(t, []string{ResultCorrect}, h.results, "answers only once")

	quiz.Close()
	require.False(t, quiz.HandleKey("2"))
}

func TestQuizClick(t *testing.T) {
	h := newSlideHarness()
	quiz := h.build(t, "quiz", map[string]string{"choices": "A|B|C", "answer": "C"}).(*Quiz)

	require.False(t, quiz.HandleClick(0, 0))
	require.True(t, quiz.HandleClick(0, 4))
	require.Equal(t, 2, quiz.Selected())
	require.Contains(t, quiz.View(styles.DefaultStyles(), 60), "LOCK IT IN")
}

func TestAlbumsCompleteAfterHold(t *testing.T) {
	h := newSlideHarness()
	albums := h.build(t, "albums", map[string]string{"items": "ONE|TWO|THREE", "hold": "2s"}).(*Albums)

	require.False(t, albums.HandleKey("space"))
	require.True(t, albums.HandleKey("1"))
	require.True(t, albums.HandleClick(albumCardWidth+albumCardGap+1, 3))
	require.False(t, albums.HandleClick(albumCardWidth, 3), "gap between cards")
	require.True(t, albums.Revealed(0))
	require.True(t, albums.Revealed(1))
	require.False(t, albums.Revealed(2))

	h.sched.Advance(10 * time.Second)
	require.Empty(t, h.results, "not complete until every card is up")

	require.True(t, albums.HandleKey("3"))
	require.Equal(t, 3, h.sounds.selects)

	h.sched.Advance(1999 * time.Millisecond)
	require.Empty(t, h.results)
	h.sched.Advance(time.Millisecond)
	require.Equal(t, []string{""}, h.results)

	view := albums.View(styles.DefaultStyles(), 80)
	require.Contains(t, view, "THREE")
}

func TestAlbumsCloseCancelsHold(t *testing.T) {
	h := newSlideHarness()
	albums := h.build(t, "albums", map[string]string{"items": "ONE"})

	require.True(t, albums.HandleKey("1"))
	require.Equal(t, 1, h.sched.Pending())
	albums.Close()
	albums.Close()
	require.Equal(t, 0, h.sched.Pending())

	h.sched.Advance(time.Minute)
	require.Empty(t, h.results)
}

func TestWinnerDrumroll(t *testing.T) {
	h := newSlideHarness()
	winner := h.build(t, "winner", map[string]string{"winner": "TAYLOR SWIFT", "items": "THE WEEKND|BAD BUNNY"}).(*Winner)
	st := styles.DefaultStyles()

	require.False(t, winner.Revealed())
	require.NotContains(t, winner.View(st, 80), "TAYLOR SWIFT")

	h.sched.Advance(time.Duration(winnerBeats+1) * winnerInterval)
	require.True(t, winner.Revealed())
	require.Equal(t, 1, h.sounds.selects)
	require.Contains(t, winner.View(st, 80), "TAYLOR SWIFT")
	require.Contains(t, winner.View(st, 80), "BAD BUNNY")

	require.False(t, winner.HandleKey("space"), "advance key passes through once revealed")
}

func TestWinnerSkip(t *testing.T) {
	h := newSlideHarness()
	winner := h.build(t, "winner", map[string]string{"winner": "X"}).(*Winner)

	require.False(t, winner.HandleKey("x"))
	require.True(t, winner.HandleKey("space"))
	require.True(t, winner.Revealed())
	require.Equal(t, 0, h.sched.Pending())
	require.Equal(t, 1, h.sounds.selects)
}

func TestWinnerCloseStopsTimers(t *testing.T) {
	h := newSlideHarness()
	winner := h.build(t, "winner", nil)
	require.Equal(t, 1, h.sched.Pending())
	winner.Close()
	require.Equal(t, 0, h.sched.Pending())
}

func TestStatsCountsUp(t *testing.T) {
	h := newSlideHarness()
	stats := h.build(t, "stats", map[string]string{"title": "USERS", "figure": "640 MILLION"}).(*Stats)

	require.Equal(t, "0 MILLION", stats.Figure())
	h.sched.Advance(statsFrames / 2 * statsFrameInterval)
	require.Equal(t, "320 MILLION", stats.Figure())
	h.sched.Advance(time.Minute)
	require.Equal(t, "640 MILLION", stats.Figure())
	require.False(t, stats.HandleKey("space"))
}

func TestStatsStaticFigure(t *testing.T) {
	h := newSlideHarness()
	stats := h.build(t, "stats", map[string]string{"figure": "LOTS"}).(*Stats)
	require.Equal(t, "LOTS", stats.Figure())
	require.Equal(t, 0, h.sched.Pending())
	stats.Close()
}

func TestListStagger(t *testing.T) {
	h := newSlideHarness()
	list := h.build(t, "list", map[string]string{"title": "TOP HITS", "items": "A|B|C"}).(*List)

	require.Equal(t, 0, list.Shown())
	h.sched.Advance(listInterval)
	require.Equal(t, 1, list.Shown())

	require.True(t, list.HandleKey("space"))
	require.Equal(t, 3, list.Shown())
	require.False(t, list.HandleKey("space"))
	require.Contains(t, list.View(styles.DefaultStyles(), 60), "03")
}

func TestParseSeries(t *testing.T) {
	got := ParseSeries("Pop:45| Hip-Hop : 30 |bad|Neg:-1|Rock:x|Lo:Fi:25")
	require.Equal(t, []Series{
		{Label: "Pop", Value: 45},
		{Label: "Hip-Hop", Value: 30},
		{Label: "Lo:Fi", Value: 25},
	}, got)
}

func TestChartShares(t *testing.T) {
	h := newSlideHarness()
	chart := h.build(t, "chart", map[string]string{"title": "TASTE", "series": "Pop:45|Hip-Hop:30|Rock:15|Other:10"}).(*Chart)

	require.InDelta(t, 0.45, chart.Share(0), 1e-9)
	require.InDelta(t, 0.10, chart.Share(3), 1e-9)
	require.Zero(t, chart.Share(9))

	require.True(t, chart.HandleKey("space"))
	view := chart.View(styles.DefaultStyles(), 80)
	require.Contains(t, view, "Other")
	require.Contains(t, view, "45%")
	chart.Close()
}

func TestFallbackCompletesOnAdvance(t *testing.T) {
	h := newSlideHarness()
	slide := NewFallback(sequencer.ViewRef{Name: "karaoke"}, h.env)

	require.False(t, slide.HandleKey("x"))
	require.True(t, slide.HandleKey("space"))
	require.Equal(t, []string{""}, h.results)
	require.Contains(t, slide.View(styles.DefaultStyles(), 80), "KARAOKE")

	slide.Close()
	require.False(t, slide.HandleKey("space"))
}

func TestQuizWithoutChoicesFallsBack(t *testing.T) {
	h := newSlideHarness()
	slide := h.build(t, "quiz", map[string]string{"question": "WHO?"})

	fallback, ok := slide.(*Fallback)
	require.True(t, ok, "expected fallback, got %T", slide)
	require.Contains(t, fallback.View(styles.DefaultStyles(), 80), "NO CHOICES")

	require.True(t, slide.HandleKey("space"))
	require.Equal(t, []string{""}, h.results)
}

func TestAlbumsWithoutItemsStillComplete(t *testing.T) {
	h := newSlideHarness()
	h.build(t, "albums", map[string]string{"hold": "500ms"})

	require.Empty(t, h.results)
	h.sched.Advance(500 * time.Millisecond)
	require.Equal(t, []string{""}, h.results)
}

func TestTooSmall(t *testing.T) {
	view := TooSmall(40, 10, 60, 20).Render(styles.DefaultStyles(), 40)
	require.True(t, strings.Contains(view, "60x20"))
	require.True(t, strings.Contains(view, "40x10"))
}

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

func TestPopupRendersMarkdown(t *testing.T) {
	popup := NewPopup("ABOUT", "# Wrapped\n\nA retro recap.")
	view := ansiEscape.ReplaceAllString(popup.View(styles.DefaultStyles(), 80), "")
	require.Contains(t, view, "ABOUT")
	require.Contains(t, view, "retro recap")
	require.Contains(t, view, "ESC")
}

func TestRenderHintBar(t *testing.T) {
	bar := RenderHintBar(styles.DefaultStyles(), []KeyHint{
		{Key: "a", Label: "ABOUT", Enabled: true},
		{Key: "c", Label: "CONTACT"},
	})
	require.Contains(t, bar, "ABOUT")
	require.NotContains(t, bar, "CONTACT")
}
