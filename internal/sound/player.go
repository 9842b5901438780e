// Package sound plays retro cues on the terminal bell.
package sound

import (
	"io"
	"sync"

	"github.com/retrowrapped/wrapped/internal/settings"
)

const bell = "\a"

// Options configures a Player.
type Options struct {
	// Enabled turns every cue off when false.
	Enabled bool

	// TypingBell rings once per revealed character. It is noisy on most
	// terminals so it is off by default.
	TypingBell bool

	// Muted reports the live mute toggle. Defaults to settings.Muted.
	Muted func() bool
}

// Player implements sequencer.Sounds by ringing the terminal bell.
type Player struct {
	mu    sync.Mutex
	out   io.Writer
	opts  Options
	plays int
}

// NewPlayer creates a Player writing to out.
func NewPlayer(out io.Writer, opts Options) *Player {
	if opts.Muted == nil {
		opts.Muted = settings.Muted
	}
	return &Player{out: out, opts: opts}
}

// PlayTypingTick rings for one revealed character.
func (p *Player) PlayTypingTick() error {
	if !p.opts.TypingBell {
		return nil
	}
	return p.ring()
}

// PlayConfirm rings when a step is advanced by hand.
func (p *Player) PlayConfirm() error {
	return p.ring()
}

// PlaySelect rings when a view reports a choice or completion.
func (p *Player) PlaySelect() error {
	return p.ring()
}

// Plays returns how many cues reached the terminal.
func (p *Player) Plays() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.plays
}

func (p *Player) ring() error {
	if p.out == nil || !p.opts.Enabled || p.opts.Muted() {
		return nil
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, err := io.WriteString(p.out, bell); err != nil {
		return err
	}
	p.plays++
	return nil
}
