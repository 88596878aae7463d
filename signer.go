package ssso

import (
	"crypto/rsa"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// TokenSigner signs JWTs with RS256 under a fixed key id.
type TokenSigner struct {
	keyID string
	key   *rsa.PrivateKey
}

// NewTokenSigner creates a new Signer instance
func NewTokenSigner(keyID string, key *rsa.PrivateKey) *TokenSigner {
	return &TokenSigner{keyID: keyID, key: key}
}

func (s *TokenSigner) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims)
	token.Header["kid"] = s.keyID

	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
