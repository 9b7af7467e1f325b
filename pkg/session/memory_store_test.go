package session_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/session"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("put and resolve", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		store.Put("tok", "user-1", time.Minute)
		userID, ok, err := store.Resolve(ctx, "tok")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("expired session does not resolve", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		store.Put("tok", "user-1", -time.Second)
		_, ok, err := store.Resolve(ctx, "tok")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("create and delete", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(0)
		defer store.Close()

		token, err := store.Create(ctx, "user-3", time.Minute)
		require.NoError(t, err)

		_, ok, _ := store.Resolve(ctx, token)
		assert.True(t, ok)

		require.NoError(t, store.Delete(ctx, token))
		_, ok, _ = store.Resolve(ctx, token)
		assert.False(t, ok)
	})

	t.Run("sweeper removes expired entries", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(10 * time.Millisecond)
		defer store.Close()

		store.Put("short", "user-1", time.Millisecond)
		store.Put("long", "user-2", time.Hour)

		assert.Eventually(t, func() bool {
			_, ok, _ := store.Resolve(ctx, "short")
			return !ok
		}, time.Second, 10*time.Millisecond)

		_, ok, _ := store.Resolve(ctx, "long")
		assert.True(t, ok)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()
		store := session.NewMemoryStore(time.Second)
		require.NoError(t, store.Close())
		require.NoError(t, store.Close())
	})
}
