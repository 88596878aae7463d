package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/delbertbeta/s-sso/cache"
	ssoredis "github.com/delbertbeta/s-sso/cache/redis"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ssoredis.SessionStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := ssoredis.NewSessionStore(client, "test")
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestSessionStoreLifecycle(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	handle, err := store.Store(ctx, []byte(`{"user_id":7}`), time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, handle)

	payload, err := store.Load(ctx, handle)
	require.NoError(t, err)
	assert.JSONEq(t, `{"user_id":7}`, string(payload))

	require.NoError(t, store.Destroy(ctx, handle))
	_, err = store.Load(ctx, handle)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestSessionStoreKeysAreHashed(t *testing.T) {
	store, mr := newTestStore(t)

	handle, err := store.Store(context.Background(), []byte(`{}`), time.Minute)
	require.NoError(t, err)

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.Equal(t, "test:session:"+cache.HashHandle(handle), keys[0])
	assert.NotContains(t, keys[0], handle)
}

func TestSessionStoreExpiry(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	handle, err := store.Store(ctx, []byte(`{}`), 10*time.Minute)
	require.NoError(t, err)

	mr.FastForward(11 * time.Minute)

	_, err = store.Load(ctx, handle)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestSessionStoreTake(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	handle, err := store.Store(ctx, []byte(`{"a":1}`), time.Minute)
	require.NoError(t, err)

	payload, err := store.Take(ctx, handle)
	require.NoError(t, err)
	assert.JSONEq(t, `{"a":1}`, string(payload))

	_, err = store.Take(ctx, handle)
	assert.ErrorIs(t, err, cache.ErrSessionNotFound)
}

func TestTypedStoreOverRedis(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()
	logins := cache.NewLoginStore(store)

	handle, err := logins.Save(ctx, &cache.LoginRecord{UserID: 42})
	require.NoError(t, err)

	rec, err := logins.Load(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), rec.UserID)
}
