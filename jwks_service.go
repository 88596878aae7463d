package ssso

import (
	"crypto/rsa"
	"encoding/base64"
	"math/big"

	"github.com/golang-jwt/jwt/v5"
)

type JSONWebKey struct {
	Kid string `json:"kid"`
	Kty string `json:"kty"`
	Alg string `json:"alg"`
	Use string `json:"use"`
	N   string `json:"n"`
	E   string `json:"e"`
}

type JSONWebKeySet struct {
	Keys []JSONWebKey `json:"keys"`
}

// JWKSService owns the provider's signing keypair for the lifetime of the
// process. It publishes the public half and signs ID tokens with the private
// half.
type JWKSService struct {
	keyID  string
	key    *rsa.PrivateKey
	signer *TokenSigner
}

func NewJWKSService(keyID string, key *rsa.PrivateKey) *JWKSService {
	return &JWKSService{
		keyID:  keyID,
		key:    key,
		signer: NewTokenSigner(keyID, key),
	}
}

// GetJWKS returns the public signing key as a JWK set.
func (s *JWKSService) GetJWKS() JSONWebKeySet {
	publicKey := &s.key.PublicKey

	return JSONWebKeySet{Keys: []JSONWebKey{{
		Kid: s.keyID,
		Kty: "RSA",
		Alg: "RS256",
		Use: "sig",
		N:   base64.RawURLEncoding.EncodeToString(publicKey.N.Bytes()),
		E:   base64.RawURLEncoding.EncodeToString(big.NewInt(int64(publicKey.E)).Bytes()),
	}}}
}

// Sign signs claims with the current signing key.
func (s *JWKSService) Sign(claims jwt.Claims) (string, error) {
	return s.signer.Sign(claims)
}

// PublicKey returns the public signing key, for verifying issued tokens.
func (s *JWKSService) PublicKey() *rsa.PublicKey {
	return &s.key.PublicKey
}

func (s *JWKSService) KeyID() string {
	return s.keyID
}
