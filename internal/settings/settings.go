// Package settings holds the process-wide sound preference.
package settings

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/retrowrapped/wrapped/internal/db"
)

// SoundStateKey is the preference key for the mute toggle.
const SoundStateKey = "sound_state"

// Stored values for SoundStateKey.
const (
	SoundMuted   = "muted"
	SoundPlaying = "playing"
)

// Store persists preferences. *db.PreferenceRepository implements it.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
}

var (
	mu    sync.RWMutex
	store Store
	muted bool
)

// Init loads the persisted state from s. A nil store keeps the state in
// memory only. Unknown stored values read as playing.
func Init(ctx context.Context, s Store) error {
	mu.Lock()
	defer mu.Unlock()

	store = s
	muted = false
	if s == nil {
		return nil
	}

	value, err := s.Get(ctx, SoundStateKey)
	if err != nil {
		if errors.Is(err, db.ErrPreferenceNotFound) {
			return nil
		}
		return fmt.Errorf("load sound state: %w", err)
	}
	muted = value == SoundMuted
	return nil
}

// Muted reports whether sound is muted.
func Muted() bool {
	mu.RLock()
	defer mu.RUnlock()
	return muted
}

// SetMuted updates and persists the state. The in-memory state changes
// even when persisting fails.
func SetMuted(ctx context.Context, value bool) error {
	mu.Lock()
	muted = value
	s := store
	mu.Unlock()

	if s == nil {
		return nil
	}
	if err := s.Set(ctx, SoundStateKey, StateLabel(value)); err != nil {
		return fmt.Errorf("save sound state: %w", err)
	}
	return nil
}

// Toggle flips the state and returns the new value.
func Toggle(ctx context.Context) (bool, error) {
	next := !Muted()
	return next, SetMuted(ctx, next)
}

// StateLabel returns the stored value for a muted flag.
func StateLabel(isMuted bool) string {
	if isMuted {
		return SoundMuted
	}
	return SoundPlaying
}
