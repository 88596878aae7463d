package cache

import (
	"context"
	"time"

	"github.com/jellydator/ttlcache/v3"
)

// MemorySessionStore implements SessionStore using ttlcache. Records live in
// process memory and do not survive a restart.
type MemorySessionStore struct {
	cache *ttlcache.Cache[string, []byte]
}

// NewMemorySessionStore creates a new in-memory session store with automatic cleanup.
func NewMemorySessionStore() *MemorySessionStore {
	cache := ttlcache.New(
		ttlcache.WithDisableTouchOnHit[string, []byte](),
	)

	// Start the cleanup process
	go cache.Start()

	return &MemorySessionStore{
		cache: cache,
	}
}

// Store implements SessionStore.Store.
func (s *MemorySessionStore) Store(_ context.Context, payload []byte, ttl time.Duration) (string, error) {
	handle, err := NewHandle()
	if err != nil {
		return "", err
	}
	s.cache.Set(HashHandle(handle), payload, ttl)
	return handle, nil
}

// Load implements SessionStore.Load.
func (s *MemorySessionStore) Load(_ context.Context, handle string) ([]byte, error) {
	item := s.cache.Get(HashHandle(handle))
	if item == nil || item.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return item.Value(), nil
}

// Take implements SessionStore.Take.
func (s *MemorySessionStore) Take(_ context.Context, handle string) ([]byte, error) {
	item, present := s.cache.GetAndDelete(HashHandle(handle))
	if !present || item.IsExpired() {
		return nil, ErrSessionNotFound
	}
	return item.Value(), nil
}

// Destroy implements SessionStore.Destroy.
func (s *MemorySessionStore) Destroy(_ context.Context, handle string) error {
	s.cache.Delete(HashHandle(handle))
	return nil
}

// Len counts the records currently held, expired ones included until purged.
func (s *MemorySessionStore) Len() int {
	return s.cache.Len()
}

// Close stops the cleanup goroutine.
func (s *MemorySessionStore) Close() error {
	s.cache.Stop()
	return nil
}

var _ SessionStore = (*MemorySessionStore)(nil)
