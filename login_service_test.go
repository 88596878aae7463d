package ssso

import (
	"context"
	"testing"

	"github.com/delbertbeta/s-sso/domain"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestLoginService_RegisterLoginLogout(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.register(t, "alice", "correct horse")
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, transportPassword("correct horse"), user.PasswordHash)
	assert.NotEmpty(t, user.Salt)

	result, err := env.login(t, "alice", "correct horse")
	require.NoError(t, err)
	assert.Equal(t, user.ID, result.User.ID)
	assert.NotEmpty(t, result.Handle)

	userID, err := env.logins.CurrentUserID(ctx, result.Handle)
	require.NoError(t, err)
	assert.Equal(t, user.ID, userID)

	require.NoError(t, env.logins.Logout(ctx, result.Handle))

	_, err = env.logins.CurrentUserID(ctx, result.Handle)
	assert.ErrorIs(t, err, serrors.ErrLoginRequired)
	assert.ErrorIs(t, env.logins.Logout(ctx, result.Handle), serrors.ErrLoginRequired)
}

func TestLoginService_LoginFailuresAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "correct horse")

	_, err := env.login(t, "alice", "wrong")
	assert.ErrorIs(t, err, serrors.ErrLoginFailed)

	_, err = env.login(t, "mallory", "correct horse")
	assert.ErrorIs(t, err, serrors.ErrLoginFailed)
}

type mockHasher struct {
	mock.Mock
}

func (m *mockHasher) Hash(password, salt string) (string, string, error) {
	args := m.Called(password, salt)
	return args.String(0), args.String(1), args.Error(2)
}

func (m *mockHasher) Verify(password, salt, expectedHash string) bool {
	return m.Called(password, salt, expectedHash).Bool(0)
}

func TestLoginService_UnknownUserStillVerifies(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	users := new(mockUserRepository)
	users.On("GetUserByUsername", mock.Anything, "mallory").Return(nil, domain.ErrNotFound).Once()
	hasher := new(mockHasher)
	hasher.On("Verify", transportPassword("pw"), dummySalt, dummyHash).Return(false).Once()

	logins := NewLoginService(users, env.keys, hasher, env.sessions, log.NewNop())

	exchange, err := env.keys.BeginExchange(ctx)
	require.NoError(t, err)
	_, err = logins.Login(ctx, LoginRequest{
		Username: "mallory",
		Token:    exchange.Token,
		Password: encryptFor(t, exchange, transportPassword("pw")),
	})
	assert.ErrorIs(t, err, serrors.ErrLoginFailed)

	users.AssertExpectations(t)
	hasher.AssertExpectations(t)
}

func TestLoginService_LoginValidatesUsername(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice", "pw")

	for name, username := range map[string]string{
		"empty":        "",
		"too long":     "abcdefghijklmnopqrstuvwxy",
		"padded":       " alice",
		"control char": "al\nice",
	} {
		t.Run(name, func(t *testing.T) {
			_, err := env.login(t, username, "pw")
			assert.ErrorIs(t, err, serrors.ErrValidation)
		})
	}
}

func TestLoginService_DuplicateUsername(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	env.register(t, "alice", "pw")

	exchange, err := env.keys.BeginExchange(ctx)
	require.NoError(t, err)
	_, err = env.logins.Register(ctx, RegisterRequest{
		Username: "alice",
		Nickname: "Other",
		Email:    "other@example.com",
		Token:    exchange.Token,
		Password: encryptFor(t, exchange, transportPassword("pw")),
	})
	assert.ErrorIs(t, err, serrors.ErrDuplicatedUsername)
}

func TestLoginService_RegisterValidation(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	exchange, err := env.keys.BeginExchange(ctx)
	require.NoError(t, err)
	password := encryptFor(t, exchange, transportPassword("pw"))

	tests := []struct {
		name    string
		req     RegisterRequest
		wantErr error
	}{
		{
			name:    "empty username",
			req:     RegisterRequest{Username: "", Nickname: "n", Email: "a@example.com"},
			wantErr: serrors.ErrValidation,
		},
		{
			name:    "username too long",
			req:     RegisterRequest{Username: "abcdefghijklmnopqrstuvwxy", Nickname: "n", Email: "a@example.com"},
			wantErr: serrors.ErrValidation,
		},
		{
			name:    "bad email",
			req:     RegisterRequest{Username: "bob", Nickname: "n", Email: "not-an-email"},
			wantErr: serrors.ErrValidation,
		},
		{
			name:    "unknown rsa token",
			req:     RegisterRequest{Username: "bob", Nickname: "n", Email: "a@example.com", Token: "missing"},
			wantErr: serrors.ErrInvalidRsaToken,
		},
		{
			name: "password not a digest",
			req: RegisterRequest{
				Username: "bob", Nickname: "n", Email: "a@example.com",
				Token: exchange.Token, Password: encryptFor(t, exchange, "short"),
			},
			wantErr: serrors.ErrInvalidPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.req.Password == "" {
				tt.req.Password = password
			}
			_, err := env.logins.Register(ctx, tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
