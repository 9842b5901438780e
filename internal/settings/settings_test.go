package settings

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/retrowrapped/wrapped/internal/db"
)

type memStore struct {
	values map[string]string
	err    error
}

func (m *memStore) Get(ctx context.Context, key string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	value, ok := m.values[key]
	if !ok {
		return "", db.ErrPreferenceNotFound
	}
	return value, nil
}

func (m *memStore) Set(ctx context.Context, key, value string) error {
	if m.err != nil {
		return m.err
	}
	m.values[key] = value
	return nil
}

func TestInitDefaultsToPlaying(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Init(ctx, &memStore{values: map[string]string{}}))
	require.False(t, Muted())
}

func TestInitLoadsMuted(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Init(ctx, &memStore{values: map[string]string{SoundStateKey: SoundMuted}}))
	require.True(t, Muted())

	require.NoError(t, Init(ctx, &memStore{values: map[string]string{SoundStateKey: "garbage"}}))
	require.False(t, Muted())
}

func TestTogglePersists(t *testing.T) {
	ctx := context.Background()
	store := &memStore{values: map[string]string{}}
	require.NoError(t, Init(ctx, store))

	value, err := Toggle(ctx)
	require.NoError(t, err)
	require.True(t, value)
	require.Equal(t, SoundMuted, store.values[SoundStateKey])

	value, err = Toggle(ctx)
	require.NoError(t, err)
	require.False(t, value)
	require.Equal(t, SoundPlaying, store.values[SoundStateKey])
}

func TestSetMutedWithoutStore(t *testing.T) {
	ctx := context.Background()
	require.NoError(t, Init(ctx, nil))
	require.NoError(t, SetMuted(ctx, true))
	require.True(t, Muted())
}

func TestStoreFailures(t *testing.T) {
	ctx := context.Background()
	broken := &memStore{values: map[string]string{}, err: errors.New("locked")}
	require.Error(t, Init(ctx, broken))

	// The state still flips in memory.
	require.Error(t, SetMuted(ctx, true))
	require.True(t, Muted())
}
