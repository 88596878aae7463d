package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"fmt"

	"golang.org/x/crypto/pbkdf2"
)

const (
	DefaultIterations = 100_000
	saltLength        = 16
	keyLength         = 32
)

var encoding = base64.RawStdEncoding

// PBKDF2Hasher derives password hashes with PBKDF2-HMAC-SHA256. Salt and hash
// are stored as opaque base64 strings.
type PBKDF2Hasher struct {
	Iterations int
}

// NewPBKDF2Hasher creates a new PBKDF2Hasher.
// Default iteration count is DefaultIterations if iterations <= 0.
func NewPBKDF2Hasher(iterations int) *PBKDF2Hasher {
	if iterations <= 0 {
		iterations = DefaultIterations
	}
	return &PBKDF2Hasher{Iterations: iterations}
}

// Hash derives the hash of password. An empty salt means a fresh random salt
// is generated; the salt actually used is returned.
func (h *PBKDF2Hasher) Hash(password, salt string) (string, string, error) {
	var rawSalt []byte
	if salt == "" {
		rawSalt = make([]byte, saltLength)
		if _, err := rand.Read(rawSalt); err != nil {
			return "", "", fmt.Errorf("failed to generate salt: %w", err)
		}
		salt = encoding.EncodeToString(rawSalt)
	} else {
		decoded, err := encoding.DecodeString(salt)
		if err != nil {
			return "", "", fmt.Errorf("invalid salt encoding: %w", err)
		}
		rawSalt = decoded
	}

	key := pbkdf2.Key([]byte(password), rawSalt, h.Iterations, keyLength, sha256.New)
	return salt, encoding.EncodeToString(key), nil
}

// Verify recomputes the hash with the stored salt and compares it in constant
// time. Undecodable stored values never match.
func (h *PBKDF2Hasher) Verify(password, salt, expectedHash string) bool {
	rawSalt, err := encoding.DecodeString(salt)
	if err != nil {
		return false
	}
	expected, err := encoding.DecodeString(expectedHash)
	if err != nil || len(expected) == 0 {
		return false
	}

	key := pbkdf2.Key([]byte(password), rawSalt, h.Iterations, len(expected), sha256.New)
	return subtle.ConstantTimeCompare(key, expected) == 1
}
