package ssso

import (
	"context"
	"testing"
	"time"

	"github.com/delbertbeta/s-sso/domain"
	"github.com/delbertbeta/s-sso/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJanitor_Purge(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	past := time.Now().Add(-time.Hour).UTC()
	future := time.Now().Add(time.Hour).UTC()
	require.NoError(t, env.store.SaveAuthorizationCode(ctx, &domain.AuthorizationCode{Code: "old", ExpiresAt: past}))
	require.NoError(t, env.store.SaveAuthorizationCode(ctx, &domain.AuthorizationCode{Code: "fresh", ExpiresAt: future}))
	require.NoError(t, env.store.SaveToken(ctx, &domain.Token{AccessToken: "a", RefreshToken: "r", ExpiresAt: past}))

	janitor := NewJanitor(env.store, time.Minute, log.NewNop())
	assert.Equal(t, int64(2), janitor.Purge(ctx))
	assert.Zero(t, janitor.Purge(ctx))

	_, err := env.store.GetAuthorizationCode(ctx, "fresh")
	assert.NoError(t, err)
}

func TestJanitor_RunStopsOnCancel(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		NewJanitor(env.store, 10*time.Millisecond, log.NewNop()).Run(ctx)
		close(done)
	}()

	time.Sleep(30 * time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("janitor did not stop")
	}
}
