// Package components provides the slides shown for view steps, plus the
// popups and empty states the player reuses.
package components

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"github.com/retrowrapped/wrapped/internal/sequencer"
	"github.com/retrowrapped/wrapped/internal/tui/styles"
)

// ErrUnknownView is returned by New for unregistered view names.
var ErrUnknownView = errors.New("unknown view")

// Slide is the on-screen half of a view step. A slide never picks the next
// step; it only reports through Env.Done that its interaction is over.
type Slide interface {
	// HandleKey reports whether the slide consumed the normalized key.
	HandleKey(key string) bool

	// HandleClick reports whether a left click at column x, row y
	// (relative to the slide's top-left corner) was consumed.
	HandleClick(x, y int) bool

	View(st styles.Styles, width int) string

	// Close stops the slide's timers and input. It is safe to call twice.
	Close()
}

// Env carries what a slide may use besides its parameters.
type Env struct {
	Scheduler sequencer.Scheduler
	Sounds    sequencer.Sounds

	// AdvanceKey is the normalized key that moves the sequence on.
	AdvanceKey string

	// Done reports that the interaction is finished. An empty result is a
	// plain completion.
	Done func(result string)

	Logger zerolog.Logger
}

// Factory builds a slide from its step parameters.
type Factory func(ref sequencer.ViewRef, env Env) Slide

var registry = map[string]Factory{
	"albums": newAlbums,
	"chart":  newChart,
	"list":   newList,
	"quiz":   newQuiz,
	"stats":  newStats,
	"winner": newWinner,
}

// Names lists the registered view names.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// New builds the slide registered under ref.Name.
func New(ref sequencer.ViewRef, env Env) (Slide, error) {
	factory, ok := registry[strings.ToLower(strings.TrimSpace(ref.Name))]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownView, ref.Name)
	}
	return factory(ref, env.withDefaults()), nil
}

func (e Env) withDefaults() Env {
	if e.AdvanceKey == "" {
		e.AdvanceKey = sequencer.DefaultAdvanceKey
	}
	if e.Done == nil {
		e.Done = func(string) {}
	}
	return e
}

func (e Env) play(name string, fn func() error) {
	if e.Sounds == nil {
		return
	}
	defer func() {
		if r := recover(); r != nil {
			e.Logger.Debug().Str("sound", name).Interface("panic", r).Msg("sound trigger panicked")
		}
	}()
	if err := fn(); err != nil {
		e.Logger.Debug().Err(err).Str("sound", name).Msg("sound trigger failed")
	}
}

func (e Env) playSelect() {
	if e.Sounds != nil {
		e.play("select", e.Sounds.PlaySelect)
	}
}

// splitItems splits a "|" separated parameter, dropping blanks.
func splitItems(value string) []string {
	var items []string
	for _, part := range strings.Split(value, "|") {
		if part = strings.TrimSpace(part); part != "" {
			items = append(items, part)
		}
	}
	return items
}

// digitIndex maps "1".."9" to 0..8 within n choices.
func digitIndex(key string, n int) (int, bool) {
	if len(key) != 1 || key[0] < '1' || key[0] > '9' {
		return 0, false
	}
	idx := int(key[0] - '1')
	return idx, idx < n
}
