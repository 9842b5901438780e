package components

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

const (
	chartInterval = 300 * time.Millisecond
	chartBarWidth = 30
)

// Series is one labelled bar.
type Series struct {
	Label string
	Value float64
}

// Chart draws a bar per series, scaled to the series total.
type Chart struct {
	env    Env
	title  string
	series []Series
	total  float64
	bars   *stagger
	closed bool
}

func newChart(ref sequencer.ViewRef, env Env) Slide {
	c := &Chart{
		env:    env,
		title:  ref.Param("title", ""),
		series: ParseSeries(ref.Param("series", "")),
	}
	for _, s := range c.series {
		c.total += s.Value
	}
	c.bars = &stagger{sched: env.Scheduler, interval: chartInterval, total: len(c.series)}
	c.bars.start()
	return c
}

// ParseSeries reads "Label:value|Label:value". Entries without a valid
// non-negative value are skipped.
func ParseSeries(value string) []Series {
	var out []Series
	for _, item := range splitItems(value) {
		idx := strings.LastIndex(item, ":")
		if idx <= 0 {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(item[idx+1:]), 64)
		if err != nil || v < 0 {
			continue
		}
		out = append(out, Series{Label: strings.TrimSpace(item[:idx]), Value: v})
	}
	return out
}

// Share returns series i as a fraction of the total.
func (c *Chart) Share(i int) float64 {
	if c.total <= 0 || i < 0 || i >= len(c.series) {
		return 0
	}
	return c.series[i].Value / c.total
}

// HandleKey implements Slide. The advance key first draws every bar.
func (c *Chart) HandleKey(key string) bool {
	if c.closed || c.bars.done() {
		return false
	}
	if key == c.env.AdvanceKey {
		c.bars.finish()
		return true
	}
	return false
}

// HandleClick implements Slide.
func (c *Chart) HandleClick(int, int) bool { return false }

// View implements Slide.
func (c *Chart) View(st styles.Styles, width int) string {
	labelWidth := 0
	for _, s := range c.series {
		labelWidth = max(labelWidth, lipgloss.Width(s.Label))
	}

	bar := progress.New(
		progress.WithSolidFill(colorOf(st.Accent, "#2FFD2F")),
		progress.WithWidth(chartBarWidth),
		progress.WithoutPercentage(),
	)
	bar.EmptyColor = colorOf(st.Border, "#066A73")

	rows := make([]string, 0, len(c.series))
	for i := 0; i < c.bars.shown && i < len(c.series); i++ {
		label := st.Text.Render(fmt.Sprintf("%-*s", labelWidth, c.series[i].Label))
		pct := st.Highlight.Render(fmt.Sprintf("%3.0f%%", c.Share(i)*100))
		rows = append(rows, label+"  "+bar.ViewAs(c.Share(i))+"  "+pct)
	}

	lines := []string{st.Title.Render(c.title), "", lipgloss.JoinVertical(lipgloss.Left, rows...)}
	if c.bars.done() {
		lines = append(lines, "", st.Muted.Render("PRESS "+keyLabel(c.env.AdvanceKey)+" TO FINISH"))
	}
	return centerLines(width, lines...)
}

// Close implements Slide.
func (c *Chart) Close() {
	if c.closed {
		return
	}
	c.closed = true
	c.bars.stop()
}
