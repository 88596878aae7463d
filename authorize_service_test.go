package ssso

import (
	"context"
	"net/url"
	"testing"
	"time"

	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthorizeService_IssuesCode(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	alice := env.register(t, "alice", "pw")
	app, _ := env.registerApp(t, alice.ID, "https://app.example/cb?keep=1")

	redirect, err := env.authorize.Authorize(ctx, AuthorizeRequest{
		ResponseType: "code",
		ClientID:     app.ID,
		RedirectURI:  "https://app.example/cb?keep=1",
		Scope:        "openid profile openid",
		State:        "xyz",
	}, alice.ID)
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "app.example", u.Host)
	assert.Equal(t, "/cb", u.Path)
	assert.Equal(t, "1", u.Query().Get("keep"))
	assert.Equal(t, "xyz", u.Query().Get("state"))

	code, err := env.store.GetAuthorizationCode(ctx, u.Query().Get("code"))
	require.NoError(t, err)
	assert.Equal(t, alice.ID, code.UserID)
	assert.Equal(t, app.ID, code.ApplicationID)
	assert.Equal(t, []string{"openid", "profile"}, code.Scopes)
	assert.WithinDuration(t, code.CreatedAt.Add(AuthorizationCodeTTL), code.ExpiresAt, time.Second)
}

func TestAuthorizeService_NoStateOmitsParameter(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "pw")
	app, _ := env.registerApp(t, alice.ID, "https://app.example/cb")

	redirect, err := env.authorize.Authorize(context.Background(), AuthorizeRequest{
		ResponseType: "code",
		ClientID:     app.ID,
		RedirectURI:  "https://app.example/cb",
	}, alice.ID)
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.False(t, u.Query().Has("state"))
	assert.NotEmpty(t, u.Query().Get("code"))
}

func TestAuthorizeService_Rejections(t *testing.T) {
	env := newTestEnv(t)
	alice := env.register(t, "alice", "pw")
	app, _ := env.registerApp(t, alice.ID, "https://app.example/cb")

	tests := []struct {
		name     string
		req      AuthorizeRequest
		wantCode string
	}{
		{
			name:     "token response type",
			req:      AuthorizeRequest{ResponseType: "token", ClientID: app.ID, RedirectURI: "https://app.example/cb"},
			wantCode: serrors.UnsupportedResponseType,
		},
		{
			name:     "unknown client",
			req:      AuthorizeRequest{ResponseType: "code", ClientID: "nope", RedirectURI: "https://app.example/cb"},
			wantCode: serrors.InvalidClient,
		},
		{
			name:     "unregistered redirect",
			req:      AuthorizeRequest{ResponseType: "code", ClientID: app.ID, RedirectURI: "https://evil.example/cb"},
			wantCode: serrors.InvalidRedirectURI,
		},
		{
			name:     "redirect differs by trailing slash",
			req:      AuthorizeRequest{ResponseType: "code", ClientID: app.ID, RedirectURI: "https://app.example/cb/"},
			wantCode: serrors.InvalidRedirectURI,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.authorize.Authorize(context.Background(), tt.req, alice.ID)
			var oauthErr *serrors.OAuth2Error
			require.ErrorAs(t, err, &oauthErr)
			assert.Equal(t, tt.wantCode, oauthErr.Code)
		})
	}
}

func TestParseScopes(t *testing.T) {
	assert.Equal(t, []string{}, ParseScopes(""))
	assert.Equal(t, []string{"openid", "email"}, ParseScopes("  openid email  openid "))
}
