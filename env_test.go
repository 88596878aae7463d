package ssso

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"crypto/x509"
	"encoding/base64"
	"encoding/hex"
	"encoding/pem"
	"testing"

	"github.com/delbertbeta/s-sso/cache"
	"github.com/delbertbeta/s-sso/domain"
	"github.com/delbertbeta/s-sso/gormstore"
	"github.com/delbertbeta/s-sso/internal/auth"
	"github.com/delbertbeta/s-sso/internal/crypto"
	"github.com/delbertbeta/s-sso/log"
	"github.com/stretchr/testify/require"
)

const testIssuer = "https://sso.example.com"

// testEnv wires every service against an in-memory SQLite store and an
// in-memory session store.
type testEnv struct {
	store    *gormstore.Store
	sessions *cache.MemorySessionStore

	keys         *KeyExchange
	logins       *LoginService
	users        *UserService
	applications *ApplicationService
	authorize    *AuthorizeService
	tokens       *TokenService
	userInfo     *UserInfoService
	jwks         *JWKSService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gormstore.Open(gormstore.DriverSQLite, ":memory:", false)
	require.NoError(t, err)
	store := gormstore.New(db)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })

	sessions := cache.NewMemorySessionStore()
	t.Cleanup(func() { _ = sessions.Close() })

	signingKey, err := crypto.GenerateRSAKey(crypto.MinRSAKeyBits)
	require.NoError(t, err)

	logger := log.NewNop()
	keys := NewKeyExchange(sessions, crypto.MinRSAKeyBits, false, logger)
	logins := NewLoginService(store, keys, auth.NewPBKDF2Hasher(1000), sessions, logger)
	jwks := NewJWKSService("1", signingKey)

	return &testEnv{
		store:        store,
		sessions:     sessions,
		keys:         keys,
		logins:       logins,
		users:        NewUserService(store, logins),
		applications: NewApplicationService(store, logger),
		authorize:    NewAuthorizeService(store, logger),
		tokens:       NewTokenService(store, jwks, testIssuer, logger),
		userInfo:     NewUserInfoService(store),
		jwks:         jwks,
	}
}

// transportPassword is what a browser sends in place of the raw password.
func transportPassword(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// encryptFor encrypts plaintext under the public key of an exchange, the way
// the login page does.
func encryptFor(t *testing.T, exchange *KeyExchangeResponse, plaintext string) string {
	t.Helper()

	block, _ := pem.Decode([]byte(exchange.PublicKey))
	require.NotNil(t, block)
	pub, err := x509.ParsePKIXPublicKey(block.Bytes)
	require.NoError(t, err)

	ciphertext, err := rsa.EncryptPKCS1v15(rand.Reader, pub.(*rsa.PublicKey), []byte(plaintext))
	require.NoError(t, err)
	return base64.StdEncoding.EncodeToString(ciphertext)
}

func (e *testEnv) register(t *testing.T, username, password string) *domain.User {
	t.Helper()
	ctx := context.Background()

	exchange, err := e.keys.BeginExchange(ctx)
	require.NoError(t, err)

	user, err := e.logins.Register(ctx, RegisterRequest{
		Username: username,
		Nickname: username,
		Email:    username + "@example.com",
		Token:    exchange.Token,
		Password: encryptFor(t, exchange, transportPassword(password)),
	})
	require.NoError(t, err)
	return user
}

func (e *testEnv) login(t *testing.T, username, password string) (*LoginResult, error) {
	t.Helper()
	ctx := context.Background()

	exchange, err := e.keys.BeginExchange(ctx)
	require.NoError(t, err)

	return e.logins.Login(ctx, LoginRequest{
		Username: username,
		Token:    exchange.Token,
		Password: encryptFor(t, exchange, transportPassword(password)),
	})
}

// registerApp creates an application owned by ownerID with one secret.
func (e *testEnv) registerApp(t *testing.T, ownerID uint64, redirectURI string) (*domain.Application, string) {
	t.Helper()
	ctx := context.Background()

	app, err := e.applications.Create(ctx, ownerID, ApplicationInput{
		Name:         "Demo",
		RedirectURIs: []string{redirectURI},
	})
	require.NoError(t, err)

	secret, err := e.applications.CreateSecret(ctx, ownerID, app.ID)
	require.NoError(t, err)
	return app, secret.Secret
}
