package ssso

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/base64"
	"time"
	"unicode/utf8"

	"github.com/delbertbeta/s-sso/cache"
	serrors "github.com/delbertbeta/s-sso/errors"
	"github.com/delbertbeta/s-sso/internal/crypto"
	"github.com/delbertbeta/s-sso/internal/metrics"
	"github.com/delbertbeta/s-sso/log"
)

// KeyExchangeResponse is handed to the client that is about to send a password.
type KeyExchangeResponse struct {
	PublicKey string `json:"public_key"`
	Token     string `json:"token"`
	Expires   int64  `json:"expires"`
	ExpiresIn int    `json:"expires_in"`
}

// KeyExchange issues ephemeral RSA keypairs and decrypts passwords encrypted
// under them. The private key never leaves the session store.
type KeyExchange struct {
	keys      *cache.TypedStore[cache.KeyExchangeRecord]
	bits      int
	singleUse bool
	logger    log.Logger
	now       func() time.Time
}

// NewKeyExchange creates a KeyExchange. With singleUse set a handle is
// consumed by its first decrypt attempt; otherwise it stays valid until it
// expires, which lets a client retry after a transient failure.
func NewKeyExchange(store cache.SessionStore, bits int, singleUse bool, logger log.Logger) *KeyExchange {
	return &KeyExchange{
		keys:      cache.NewKeyExchangeStore(store),
		bits:      bits,
		singleUse: singleUse,
		logger:    logger,
		now:       time.Now,
	}
}

// BeginExchange generates a keypair, stores the private half and returns the
// public half with its handle.
func (k *KeyExchange) BeginExchange(ctx context.Context) (*KeyExchangeResponse, error) {
	key, err := crypto.GenerateRSAKey(k.bits)
	if err != nil {
		return nil, serrors.NewCryptoError(err)
	}

	publicPEM, err := crypto.EncodePublicKeyPEM(&key.PublicKey)
	if err != nil {
		return nil, serrors.NewCryptoError(err)
	}

	handle, err := k.keys.Save(ctx, &cache.KeyExchangeRecord{PrivateKeyPEM: crypto.EncodePrivateKeyPEM(key)})
	if err != nil {
		return nil, serrors.NewInternalError(err)
	}

	metrics.KeyExchangesTotal.Inc()

	ttl := k.keys.TTL()
	return &KeyExchangeResponse{
		PublicKey: publicPEM,
		Token:     handle,
		Expires:   k.now().Add(ttl).Unix(),
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// Decrypt decrypts a base64 PKCS#1 v1.5 ciphertext with the private key stored
// under handle. Ciphertext that is not valid base64 is decrypted as empty
// input and therefore fails like any other bad ciphertext.
func (k *KeyExchange) Decrypt(ctx context.Context, handle, ciphertext string) (string, error) {
	var (
		rec *cache.KeyExchangeRecord
		err error
	)
	if k.singleUse {
		rec, err = k.keys.Take(ctx, handle)
	} else {
		rec, err = k.keys.Load(ctx, handle)
	}
	if cache.IsNotFound(err) {
		return "", serrors.ErrInvalidRsaToken
	}
	if err != nil {
		return "", serrors.NewInternalError(err)
	}

	key, err := crypto.ParsePrivateKeyPEM([]byte(rec.PrivateKeyPEM))
	if err != nil {
		return "", serrors.NewCryptoError(err)
	}

	data, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		data = nil
	}

	plain, err := rsa.DecryptPKCS1v15(rand.Reader, key, data)
	if err != nil {
		k.logger.Debug(ctx, "password decryption failed", log.Fields{"error": err.Error()})
		return "", serrors.ErrDecryptPassword
	}

	plain = bytes.TrimRight(plain, "\x00")
	if !utf8.Valid(plain) {
		return "", serrors.ErrDecryptPassword
	}
	return string(plain), nil
}
