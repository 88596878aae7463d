package cache

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const handleBytes = 32

// NewHandle returns an unguessable URL-safe session handle.
func NewHandle() (string, error) {
	buf := make([]byte, handleBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session handle: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// HashHandle hashes a handle with SHA256. Stores key records by the hash so a
// dump of the store does not leak live handles.
func HashHandle(handle string) string {
	sum := sha256.Sum256([]byte(handle))
	return hex.EncodeToString(sum[:])
}
