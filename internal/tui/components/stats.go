package components

import (
	"strconv"
	"time"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

const (
	statsFrames        = 24
	statsFrameInterval = 40 * time.Millisecond
)

// Stats shows one headline figure, counting its leading number up.
type Stats struct {
	title   string
	prefix  string
	figure  string
	caption string

	number int
	suffix string
	count  bool
	frame  int
	anim   *stagger
	closed bool
}

func newStats(ref sequencer.ViewRef, env Env) Slide {
	s := &Stats{
		title:   ref.Param("title", ""),
		prefix:  ref.Param("prefix", ""),
		figure:  ref.Param("figure", ""),
		caption: ref.Param("caption", ""),
	}
	s.number, s.suffix, s.count = splitLeadingNumber(s.figure)

	total := 0
	if s.count {
		total = statsFrames
	}
	s.anim = &stagger{
		sched:    env.Scheduler,
		interval: statsFrameInterval,
		total:    total,
		onShow:   func(shown int) { s.frame = shown },
	}
	s.anim.start()
	return s
}

// HandleKey implements Slide. Stats steps advance on their own.
func (s *Stats) HandleKey(string) bool { return false }

// HandleClick implements Slide.
func (s *Stats) HandleClick(int, int) bool { return false }

// Figure returns the figure as currently displayed.
func (s *Stats) Figure() string {
	if !s.count || s.anim.done() {
		return s.figure
	}
	value := s.number * s.frame / statsFrames
	return strconv.Itoa(value) + s.suffix
}

// View implements Slide.
func (s *Stats) View(st styles.Styles, width int) string {
	lines := []string{st.Title.Render(s.title), ""}
	if s.prefix != "" {
		lines = append(lines, st.Text.Render(s.prefix))
	}
	lines = append(lines, st.Highlight.Render(s.Figure()))
	if s.caption != "" {
		lines = append(lines, st.Text.Render(s.caption))
	}
	return centerLines(width, lines...)
}

// Close implements Slide.
func (s *Stats) Close() {
	if s.closed {
		return
	}
	s.closed = true
	s.anim.stop()
}

// splitLeadingNumber splits "640 MILLION" into 640 and " MILLION".
func splitLeadingNumber(figure string) (int, string, bool) {
	end := 0
	for end < len(figure) && figure[end] >= '0' && figure[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, "", false
	}
	n, err := strconv.Atoi(figure[:end])
	if err != nil || n <= 0 {
		return 0, "", false
	}
	return n, figure[end:], true
}
