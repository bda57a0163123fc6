package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryRoundtrip(t *testing.T) {
	store := NewMemory(time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userId, err := store.User(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userId)
}

func TestMemoryUnknownToken(t *testing.T) {
	store := NewMemory(time.Hour)

	_, err := store.User(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryDestroy(t *testing.T) {
	store := NewMemory(time.Hour)
	ctx := context.Background()

	token, err := store.Create(ctx, 7)
	require.NoError(t, err)

	require.NoError(t, store.Destroy(ctx, token))

	_, err = store.User(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)

	// destroying twice is fine
	assert.NoError(t, store.Destroy(ctx, token))
}

func TestMemoryExpiry(t *testing.T) {
	store := NewMemory(time.Minute)
	ctx := context.Background()

	token, err := store.Create(ctx, 7)
	require.NoError(t, err)

	now := time.Now()
	store.now = func() time.Time { return now.Add(2 * time.Minute) }

	_, err = store.User(ctx, token)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTokensAreUnique(t *testing.T) {
	store := NewMemory(time.Hour)
	ctx := context.Background()

	t1, err := store.Create(ctx, 1)
	require.NoError(t, err)
	t2, err := store.Create(ctx, 1)
	require.NoError(t, err)

	assert.NotEqual(t, t1, t2)
}
