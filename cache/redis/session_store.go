package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/delbertbeta/s-sso/cache"
	"github.com/redis/go-redis/v9"
)

// SessionStore implements cache.SessionStore using Redis. Expiry is delegated
// to Redis key TTLs.
type SessionStore struct {
	client *redis.Client
	prefix string
}

// NewSessionStore creates a new [SessionStore] instance
func NewSessionStore(client *redis.Client, prefix string) *SessionStore {
	return &SessionStore{
		client: client,
		prefix: prefix,
	}
}

// redisKey returns the Redis key for a given handle
func (r *SessionStore) redisKey(handle string) string {
	return fmt.Sprintf("%s:session:%s", r.prefix, cache.HashHandle(handle))
}

// Store implements cache.SessionStore.Store.
func (r *SessionStore) Store(ctx context.Context, payload []byte, ttl time.Duration) (string, error) {
	handle, err := cache.NewHandle()
	if err != nil {
		return "", err
	}

	ok, err := r.client.SetNX(ctx, r.redisKey(handle), payload, ttl).Result()
	if err != nil {
		return "", fmt.Errorf("failed to store session in Redis: %w", err)
	}
	if !ok {
		return "", errors.New("session handle collision")
	}

	return handle, nil
}

// Load implements cache.SessionStore.Load.
func (r *SessionStore) Load(ctx context.Context, handle string) ([]byte, error) {
	payload, err := r.client.Get(ctx, r.redisKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session from Redis: %w", err)
	}
	return payload, nil
}

// Take implements cache.SessionStore.Take with GETDEL.
func (r *SessionStore) Take(ctx context.Context, handle string) ([]byte, error) {
	payload, err := r.client.GetDel(ctx, r.redisKey(handle)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, cache.ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to take session from Redis: %w", err)
	}
	return payload, nil
}

// Destroy implements cache.SessionStore.Destroy.
func (r *SessionStore) Destroy(ctx context.Context, handle string) error {
	if err := r.client.Del(ctx, r.redisKey(handle)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from Redis: %w", err)
	}
	return nil
}

// Ping checks the Redis connection.
func (r *SessionStore) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the underlying client.
func (r *SessionStore) Close() error {
	return r.client.Close()
}

var _ cache.SessionStore = (*SessionStore)(nil)
