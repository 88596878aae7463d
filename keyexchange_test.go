package ssso

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/base64"
	"encoding/pem"
	"testing"
	"time"

	"github.com/delbertbeta/s-sso/cache"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/internal/crypto"
	"github.com/delbertbeta/s-sso/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeyExchange_RoundTrip(t *testing.T) {
	sessions := cache.NewMemorySessionStore()
	defer sessions.Close()
	keys := NewKeyExchange(sessions, crypto.MinRSAKeyBits, false, log.NewNop())
	ctx := context.Background()

	exchange, err := keys.BeginExchange(ctx)
	require.NoError(t, err)
	assert.Contains(t, exchange.PublicKey, "BEGIN PUBLIC KEY")
	assert.NotEmpty(t, exchange.Token)
	assert.Equal(t, int(cache.KeyExchangeTTL.Seconds()), exchange.ExpiresIn)
	assert.InDelta(t, time.Now().Add(cache.KeyExchangeTTL).Unix(), exchange.Expires, 5)

	secret := transportPassword("hunter2")
	plain, err := keys.Decrypt(ctx, exchange.Token, encryptFor(t, exchange, secret))
	require.NoError(t, err)
	assert.Equal(t, secret, plain)

	// Multi-use: the handle survives a successful decrypt.
	plain, err = keys.Decrypt(ctx, exchange.Token, encryptFor(t, exchange, "again"))
	require.NoError(t, err)
	assert.Equal(t, "again", plain)
}

func TestKeyExchange_SingleUse(t *testing.T) {
	sessions := cache.NewMemorySessionStore()
	defer sessions.Close()
	keys := NewKeyExchange(sessions, crypto.MinRSAKeyBits, true, log.NewNop())
	ctx := context.Background()

	exchange, err := keys.BeginExchange(ctx)
	require.NoError(t, err)

	_, err = keys.Decrypt(ctx, exchange.Token, encryptFor(t, exchange, "first"))
	require.NoError(t, err)

	_, err = keys.Decrypt(ctx, exchange.Token, encryptFor(t, exchange, "second"))
	assert.ErrorIs(t, err, serrors.ErrInvalidRsaToken)
}

func TestKeyExchange_Failures(t *testing.T) {
	sessions := cache.NewMemorySessionStore()
	defer sessions.Close()
	keys := NewKeyExchange(sessions, crypto.MinRSAKeyBits, false, log.NewNop())
	ctx := context.Background()

	exchange, err := keys.BeginExchange(ctx)
	require.NoError(t, err)
	valid := encryptFor(t, exchange, "secret")

	t.Run("unknown handle", func(t *testing.T) {
		_, err := keys.Decrypt(ctx, "no-such-handle", valid)
		assert.ErrorIs(t, err, serrors.ErrInvalidRsaToken)
	})

	t.Run("tampered ciphertext", func(t *testing.T) {
		raw, err := base64.StdEncoding.DecodeString(valid)
		require.NoError(t, err)
		raw[len(raw)/2] ^= 0xff
		_, err = keys.Decrypt(ctx, exchange.Token, base64.StdEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, serrors.ErrDecryptPassword)
	})

	t.Run("not base64", func(t *testing.T) {
		_, err := keys.Decrypt(ctx, exchange.Token, "%%%not-base64%%%")
		assert.ErrorIs(t, err, serrors.ErrDecryptPassword)
	})

	t.Run("other exchange's key", func(t *testing.T) {
		other, err := keys.BeginExchange(ctx)
		require.NoError(t, err)
		_, err = keys.Decrypt(ctx, other.Token, valid)
		assert.ErrorIs(t, err, serrors.ErrDecryptPassword)
	})

	t.Run("invalid utf8", func(t *testing.T) {
		block, _ := pem.Decode([]byte(exchange.PublicKey))
		pub, err := x509.ParsePKIXPublicKey(block.Bytes)
		require.NoError(t, err)
		ct, err := rsa.EncryptPKCS1v15(rand.Reader, pub.(*rsa.PublicKey), []byte{0xff, 0xfe, 0xfd})
		require.NoError(t, err)
		_, err = keys.Decrypt(ctx, exchange.Token, base64.StdEncoding.EncodeToString(ct))
		assert.ErrorIs(t, err, serrors.ErrDecryptPassword)
	})
}

func TestKeyExchange_TrailingNULsTrimmed(t *testing.T) {
	sessions := cache.NewMemorySessionStore()
	defer sessions.Close()
	keys := NewKeyExchange(sessions, crypto.MinRSAKeyBits, false, log.NewNop())
	ctx := context.Background()

	exchange, err := keys.BeginExchange(ctx)
	require.NoError(t, err)

	plain, err := keys.Decrypt(ctx, exchange.Token, encryptFor(t, exchange, "abc\x00\x00"))
	require.NoError(t, err)
	assert.Equal(t, "abc", plain)
}
