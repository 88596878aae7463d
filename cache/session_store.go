package cache

import (
	"context"
	"errors"
	"time"
)

// ErrSessionNotFound is returned for unknown, destroyed and expired handles.
var ErrSessionNotFound = errors.New("session not found")

// SessionStore maps opaque handles to JSON payloads with a TTL. Expired
// records must read as absent even if they have not been purged yet.
type SessionStore interface {
	// Store saves payload under a new handle and returns the handle.
	Store(ctx context.Context, payload []byte, ttl time.Duration) (string, error)
	Load(ctx context.Context, handle string) ([]byte, error)
	// Take loads and destroys the record atomically, so concurrent callers
	// cannot both obtain it.
	Take(ctx context.Context, handle string) ([]byte, error)
	Destroy(ctx context.Context, handle string) error
	Close() error
}
