package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

const (
	KeyExchangeTTL = 10 * time.Minute
	LoginTTL       = 15 * 24 * time.Hour
)

// KeyExchangeRecord holds the private half of an ephemeral RSA keypair.
type KeyExchangeRecord struct {
	PrivateKeyPEM string `json:"private_key"`
}

// LoginRecord is the identity bound to a login session cookie.
type LoginRecord struct {
	UserID uint64 `json:"user_id"`
}

// TypedStore stores one payload shape on top of a SessionStore.
type TypedStore[T any] struct {
	store SessionStore
	ttl   time.Duration
}

// NewTypedStore creates a TypedStore whose records expire after ttl.
func NewTypedStore[T any](store SessionStore, ttl time.Duration) *TypedStore[T] {
	return &TypedStore[T]{store: store, ttl: ttl}
}

// NewKeyExchangeStore returns the store for ephemeral RSA keys.
func NewKeyExchangeStore(store SessionStore) *TypedStore[KeyExchangeRecord] {
	return NewTypedStore[KeyExchangeRecord](store, KeyExchangeTTL)
}

// NewLoginStore returns the store for login sessions.
func NewLoginStore(store SessionStore) *TypedStore[LoginRecord] {
	return NewTypedStore[LoginRecord](store, LoginTTL)
}

// TTL is the lifetime given to new records.
func (s *TypedStore[T]) TTL() time.Duration { return s.ttl }

// Save stores v and returns its handle.
func (s *TypedStore[T]) Save(ctx context.Context, v *T) (string, error) {
	payload, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to marshal session payload: %w", err)
	}
	return s.store.Store(ctx, payload, s.ttl)
}

// Load returns the record for handle or ErrSessionNotFound. A payload that
// no longer decodes is treated as absent.
func (s *TypedStore[T]) Load(ctx context.Context, handle string) (*T, error) {
	if handle == "" {
		return nil, ErrSessionNotFound
	}
	payload, err := s.store.Load(ctx, handle)
	if err != nil {
		return nil, err
	}
	return decode[T](payload)
}

func decode[T any](payload []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(payload, &v); err != nil {
		return nil, ErrSessionNotFound
	}
	return &v, nil
}

// Take loads the record and destroys it, so the handle works only once.
func (s *TypedStore[T]) Take(ctx context.Context, handle string) (*T, error) {
	if handle == "" {
		return nil, ErrSessionNotFound
	}
	payload, err := s.store.Take(ctx, handle)
	if err != nil {
		return nil, err
	}
	return decode[T](payload)
}

// Destroy removes the record for handle.
func (s *TypedStore[T]) Destroy(ctx context.Context, handle string) error {
	return s.store.Destroy(ctx, handle)
}

// IsNotFound reports whether err means the handle is unknown or expired.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrSessionNotFound)
}
