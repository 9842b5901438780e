// Package tui implements the wrapped terminal slideshow player.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/retrowrapped/wrapped/internal/events"
	"github.com/retrowrapped/wrapped/internal/logging"
	"github.com/retrowrapped/wrapped/internal/models"
	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/sequences"
	"github.com/retrowrapped/wrapped/internal/settings"
	"github.com/retrowrapped/wrapped/internal/tui/components"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

// Config configures the player.
type Config struct {
	Context context.Context

	Deck *sequences.Sequence
	Vars map[string]string

	Theme       string
	Timing      sequencer.Timing
	LandingFade time.Duration
	AdvanceKey  string

	Sounds sequencer.Sounds

	// History receives play events when set.
	History events.Repository

	About   Page
	Contact Page
}

// Page is rendered markdown shown in a popup.
type Page struct {
	Title    string
	Markdown string
}

func (p Page) withDefaults(title string) Page {
	if p.Title == "" {
		p.Title = title
	}
	if p.Markdown == "" {
		p.Markdown = "_Nothing here yet._"
	}
	return p
}

// RunWithConfig launches the player and blocks until it exits.
func RunWithConfig(cfg Config) error {
	m, err := newModel(cfg)
	if err != nil {
		return err
	}
	program := tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = program.Run()
	return err
}

type screen int

const (
	screenLanding screen = iota
	screenLandingFade
	screenSequence
)

const (
	minWidth      = 60
	minHeight     = 20
	defaultWidth  = 80
	defaultHeight = 24
	frameInterval = time.Second / 30
	footerHeight  = 2
)

type frameMsg time.Time

type startSequenceMsg struct{}

type model struct {
	cfg    Config
	ctx    context.Context
	keys   keyMap
	styles styles.Styles
	logger zerolog.Logger
	title  string
	script sequencer.Script

	width  int
	height int
	screen screen
	popup  *components.Popup

	fadeStarted  time.Time
	framePending bool

	sched    *teaScheduler
	views    *viewHost
	seq      *sequencer.Sequencer
	recorder *events.Recorder

	slideX int
	slideY int
}

func newModel(cfg Config) (*model, error) {
	if cfg.Deck == nil {
		return nil, fmt.Errorf("deck is required")
	}
	script, err := sequences.RenderSequence(cfg.Deck, cfg.Vars)
	if err != nil {
		return nil, err
	}
	if cfg.Context == nil {
		cfg.Context = context.Background()
	}
	if cfg.Timing == (sequencer.Timing{}) {
		cfg.Timing = sequencer.DefaultTiming()
	}
	if cfg.LandingFade <= 0 {
		cfg.LandingFade = 500 * time.Millisecond
	}
	cfg.About = cfg.About.withDefaults("ABOUT")
	cfg.Contact = cfg.Contact.withDefaults("CONTACT")
	cfg.AdvanceKey = sequencer.NormalizeKey(cfg.AdvanceKey)
	if cfg.AdvanceKey == "" {
		cfg.AdvanceKey = sequencer.DefaultAdvanceKey
	}

	return &model{
		cfg:    cfg,
		ctx:    cfg.Context,
		keys:   defaultKeyMap(),
		styles: styles.BuildStyles(styles.Lookup(cfg.Theme)),
		logger: logging.Component("tui").With().Str("deck", cfg.Deck.Name).Logger(),
		title:  landingTitle(cfg.Deck, cfg.Vars),
		script: script,
		screen: screenLanding,
		sched:  newTeaScheduler(),
	}, nil
}

func (m *model) Init() tea.Cmd {
	return nil
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case timerMsg:
		m.sched.fire(msg.id)
	case frameMsg:
		m.framePending = false
	case startSequenceMsg:
		if m.screen == screenLandingFade {
			m.startSequence()
		}
	case tea.KeyMsg:
		cmds = append(cmds, m.handleKey(msg))
	case tea.MouseMsg:
		m.handleMouse(msg)
	}

	cmds = append(cmds, m.sched.drain(), m.nextFrame())
	return m, tea.Batch(cmds...)
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if key.Matches(msg, m.keys.Quit) {
		m.stopSequence()
		return tea.Quit
	}
	if m.tooSmall() {
		return nil
	}
	if key.Matches(msg, m.keys.Mute) {
		m.toggleMute()
		return nil
	}

	if m.popup != nil {
		if key.Matches(msg, m.keys.Back) {
			m.popup = nil
		}
		return nil
	}

	switch m.screen {
	case screenLanding:
		switch {
		case key.Matches(msg, m.keys.Reveal):
			m.screen = screenLandingFade
			m.fadeStarted = m.sched.Now()
			return tea.Tick(m.cfg.LandingFade, func(time.Time) tea.Msg { return startSequenceMsg{} })
		case key.Matches(msg, m.keys.About):
			m.popup = components.NewPopup(m.cfg.About.Title, m.cfg.About.Markdown)
		case key.Matches(msg, m.keys.Contact):
			m.popup = components.NewPopup(m.cfg.Contact.Title, m.cfg.Contact.Markdown)
		}
	case screenSequence:
		if key.Matches(msg, m.keys.Back) {
			m.stopSequence()
			return nil
		}
		m.routeKey(sequencer.NormalizeKey(msg.String()))
	}
	return nil
}

// routeKey offers the key to the active slide first, then to the sequence.
func (m *model) routeKey(k string) {
	if m.seq == nil {
		return
	}
	if m.seq.Phase() == sequencer.PhaseActive && m.views.handleKey(k) {
		return
	}
	m.seq.RequestAdvance(sequencer.UserInput(k))
}

func (m *model) handleMouse(msg tea.MouseMsg) {
	if m.seq == nil || m.tooSmall() || m.seq.Phase() != sequencer.PhaseActive {
		return
	}
	if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
		return
	}
	m.views.handleClick(msg.X-m.slideX, msg.Y-m.slideY)
}

func (m *model) startSequence() {
	m.sched.reset()
	m.views = &viewHost{
		sched:      m.sched,
		sounds:     m.cfg.Sounds,
		advanceKey: m.cfg.AdvanceKey,
		logger:     m.logger,
	}

	opts := sequencer.Options{
		Scheduler:  m.sched,
		Views:      m.views,
		Host:       sequencer.HostFunc(m.sequenceComplete),
		Sounds:     m.cfg.Sounds,
		Timing:     m.cfg.Timing,
		AdvanceKey: m.cfg.AdvanceKey,
	}
	if m.cfg.History != nil {
		m.recorder = events.NewRecorder(m.ctx, m.cfg.History, m.cfg.Deck.Name, m.cfg.Deck.Source, models.PlayModeInteractive)
		m.recorder.Begin(len(m.script.Steps))
		opts.Observer = m.recorder.Observe
	}

	seq, err := sequencer.New(m.script, opts)
	if err != nil {
		m.logger.Error().Err(err).Msg("failed to start sequence")
		m.screen = screenLanding
		return
	}
	m.views.seq = seq
	m.seq = seq
	m.screen = screenSequence
	seq.Start()
}

// sequenceComplete is the sequencer host callback.
func (m *model) sequenceComplete() {
	m.logger.Info().Msg("sequence finished, back to landing")
	m.teardown()
}

// stopSequence abandons a running sequence.
func (m *model) stopSequence() {
	if m.seq == nil {
		return
	}
	m.seq.Stop()
	m.teardown()
}

func (m *model) teardown() {
	if m.views != nil {
		m.views.closeAll()
	}
	m.sched.reset()
	m.seq = nil
	m.recorder = nil
	m.screen = screenLanding
}

func (m *model) toggleMute() {
	muted, err := settings.Toggle(m.ctx)
	if err != nil {
		m.logger.Warn().Err(err).Msg("failed to persist sound state")
	}
	m.logger.Debug().Bool("muted", muted).Msg("sound toggled")
}

// nextFrame keeps redraws flowing while something is animating.
func (m *model) nextFrame() tea.Cmd {
	if m.framePending || m.screen == screenLanding {
		return nil
	}
	m.framePending = true
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return frameMsg(t) })
}

func (m *model) size() (int, int) {
	w, h := m.width, m.height
	if w <= 0 {
		w = defaultWidth
	}
	if h <= 0 {
		h = defaultHeight
	}
	return w, h
}

func (m *model) tooSmall() bool {
	return m.width > 0 && m.height > 0 && (m.width < minWidth || m.height < minHeight)
}

func (m *model) View() string {
	width, height := m.size()
	if m.tooSmall() {
		notice := components.TooSmall(m.width, m.height, minWidth, minHeight).Render(m.styles, width)
		return lipgloss.Place(width, height, lipgloss.Center, lipgloss.Center, notice)
	}

	bodyHeight := height - footerHeight
	var body, footer string
	switch {
	case m.popup != nil:
		body = m.popup.View(m.styles, width)
		footer = m.footer(m.styles, nil)
	case m.screen == screenSequence && m.seq != nil:
		body, footer = m.sequenceView(width)
	default:
		alpha := 1.0
		if m.screen == screenLandingFade {
			alpha = 1 - progress(m.sched.Now().Sub(m.fadeStarted), m.cfg.LandingFade)
		}
		st := m.styles.WithAlpha(alpha)
		body = m.landingView(st, width)
		footer = m.footer(st, []components.KeyHint{
			{Key: "a", Label: "ABOUT", Enabled: true},
			{Key: "c", Label: "CONTACT", Enabled: true},
		})
	}

	placed := lipgloss.Place(width, bodyHeight, lipgloss.Center, lipgloss.Center, body)
	m.slideX = (width - lipgloss.Width(body)) / 2
	m.slideY = (bodyHeight - lipgloss.Height(body)) / 2
	return placed + "\n" + lipgloss.PlaceHorizontal(width, lipgloss.Center, footer)
}

func (m *model) landingView(st styles.Styles, width int) string {
	prompt := "PRESS THE ( SPACEBAR ) TO REVEAL"
	if m.cfg.AdvanceKey != sequencer.DefaultAdvanceKey {
		prompt = "PRESS ( " + strings.ToUpper(m.cfg.AdvanceKey) + " ) TO REVEAL"
	}
	lines := []string{
		st.Panel.Render(st.Title.Render(m.title)),
		"",
		st.Text.Render(prompt),
	}
	return lipgloss.NewStyle().Width(width).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (m *model) sequenceView(width int) (string, string) {
	snap := m.seq.Snapshot()
	now := m.sched.Now()

	alpha := 1.0
	switch snap.Phase {
	case sequencer.PhaseEntering:
		alpha = snap.PhaseProgress(now)
	case sequencer.PhaseExiting:
		alpha = 1 - snap.PhaseProgress(now)
	case sequencer.PhaseComplete:
		alpha = 0
	}
	st := m.styles.WithAlpha(alpha)

	var body string
	if snap.HasStep {
		switch snap.Step.Kind {
		case sequencer.StepMessage:
			body = m.messageView(st, snap, width)
		case sequencer.StepView:
			if slide := m.views.visible(); slide != nil {
				body = slide.View(st, width)
			}
		}
	}

	counter := fmt.Sprintf("%02d/%02d", min(snap.Index+1, len(m.script.Steps)), len(m.script.Steps))
	footer := m.footer(m.styles, []components.KeyHint{
		{Key: "esc", Label: "LANDING", Enabled: true},
	})
	return body, m.styles.Muted.Render(counter) + "   " + footer
}

func (m *model) messageView(st styles.Styles, snap sequencer.Snapshot, width int) string {
	text := snap.Revealed
	if !snap.FullyRevealed && snap.Phase == sequencer.PhaseActive {
		text += "▌"
	}

	lines := []string{st.Title.Render(text)}
	policy := snap.Step.Advance
	if snap.FullyRevealed && snap.Phase == sequencer.PhaseActive &&
		(policy.Mode == sequencer.AdvanceOnInput || policy.Skippable) {
		lines = append(lines, "", st.Muted.Render("PRESS "+strings.ToUpper(m.cfg.AdvanceKey)))
	}
	return lipgloss.NewStyle().Width(width - 8).Align(lipgloss.Center).Render(strings.Join(lines, "\n"))
}

func (m *model) footer(st styles.Styles, extra []components.KeyHint) string {
	soundLabel := "MUTE"
	if settings.Muted() {
		soundLabel = "UNMUTE"
	}
	hints := append(extra,
		components.KeyHint{Key: "m", Label: soundLabel, Enabled: true},
		components.KeyHint{Key: "q", Label: "QUIT", Enabled: true},
	)
	return components.RenderHintBar(st, hints)
}

func progress(elapsed, total time.Duration) float64 {
	if total <= 0 || elapsed >= total {
		return 1
	}
	if elapsed <= 0 {
		return 0
	}
	return float64(elapsed) / float64(total)
}

func landingTitle(deck *sequences.Sequence, vars map[string]string) string {
	brand := strings.TrimSpace(vars["brand"])
	if brand == "" {
		for _, variable := range deck.Variables {
			if variable.Name == "brand" {
				brand = variable.Default
			}
		}
	}
	if brand == "" {
		return strings.ToUpper(deck.Name)
	}
	return strings.ToUpper(brand) + " WRAPPED"
}
