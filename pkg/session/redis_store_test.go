package session_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/session"
)

// fakeRedis overrides the handful of commands the store uses.
type fakeRedis struct {
	redis.Cmdable
	data map[string]string
	ttl  map[string]time.Duration
	err  error
}

func newFakeRedis() *fakeRedis {
	return &fakeRedis{data: map[string]string{}, ttl: map[string]time.Duration{}}
}

func (f *fakeRedis) Get(ctx context.Context, key string) *redis.StringCmd {
	if f.err != nil {
		return redis.NewStringResult("", f.err)
	}
	v, ok := f.data[key]
	if !ok {
		return redis.NewStringResult("", redis.Nil)
	}
	return redis.NewStringResult(v, nil)
}

func (f *fakeRedis) Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd {
	if f.err != nil {
		return redis.NewStatusResult("", f.err)
	}
	f.data[key] = value.(string)
	f.ttl[key] = expiration
	return redis.NewStatusResult("OK", nil)
}

func (f *fakeRedis) Del(ctx context.Context, keys ...string) *redis.IntCmd {
	if f.err != nil {
		return redis.NewIntResult(0, f.err)
	}
	var n int64
	for _, k := range keys {
		if _, ok := f.data[k]; ok {
			delete(f.data, k)
			n++
		}
	}
	return redis.NewIntResult(n, nil)
}

func TestRedisStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("resolves token stored under auth prefix", func(t *testing.T) {
		t.Parallel()
		rdb := newFakeRedis()
		rdb.data["auth_tok-1"] = "user-1"
		store := session.NewRedisStore(rdb)

		userID, ok, err := store.Resolve(ctx, "tok-1")
		require.NoError(t, err)
		assert.True(t, ok)
		assert.Equal(t, "user-1", userID)
	})

	t.Run("unknown and empty tokens are not authenticated", func(t *testing.T) {
		t.Parallel()
		store := session.NewRedisStore(newFakeRedis())

		_, ok, err := store.Resolve(ctx, "missing")
		require.NoError(t, err)
		assert.False(t, ok)

		_, ok, err = store.Resolve(ctx, "")
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("backend failure is reported", func(t *testing.T) {
		t.Parallel()
		rdb := newFakeRedis()
		rdb.err = errors.New("connection refused")
		store := session.NewRedisStore(rdb)

		_, ok, err := store.Resolve(ctx, "tok")
		assert.False(t, ok)
		assert.ErrorIs(t, err, session.ErrStoreUnavailable)
	})

	t.Run("create then delete", func(t *testing.T) {
		t.Parallel()
		rdb := newFakeRedis()
		store := session.NewRedisStore(rdb)

		token, err := store.Create(ctx, "user-2", time.Hour)
		require.NoError(t, err)
		require.NotEmpty(t, token)
		assert.Equal(t, "user-2", rdb.data[session.Key(token)])
		assert.Equal(t, time.Hour, rdb.ttl[session.Key(token)])

		require.NoError(t, store.Delete(ctx, token))
		_, ok, err := store.Resolve(ctx, token)
		require.NoError(t, err)
		assert.False(t, ok)
	})

	t.Run("create validates input", func(t *testing.T) {
		t.Parallel()
		store := session.NewRedisStore(newFakeRedis())

		_, err := store.Create(ctx, "", time.Hour)
		assert.ErrorIs(t, err, session.ErrInvalidUserID)

		_, err = store.Create(ctx, "u", 0)
		assert.ErrorIs(t, err, session.ErrInvalidTTL)
	})
}
