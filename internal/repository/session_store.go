package repository

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrSessionMiss is returned by Get when the key does not exist or has
// expired.  Callers treat it as a normal negative result.
var ErrSessionMiss = errors.New("session key not found")

// SessionStore is the narrow interface the core uses to talk to the
// session cache.  It hides connection management; the production
// implementation wraps a Redis client, tests supply fakes.
type SessionStore interface {
	Get(ctx context.Context, key string) (string, error)
	SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error
	Del(ctx context.Context, key string) error
	Alive(ctx context.Context) bool
}

// RedisSessionStore implements SessionStore on top of go-redis.
type RedisSessionStore struct{ Client *redis.Client }

func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{Client: client}
}

func (s *RedisSessionStore) Get(ctx context.Context, key string) (string, error) {
	v, err := s.Client.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", ErrSessionMiss
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *RedisSessionStore) SetWithTTL(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.Client.Set(ctx, key, value, ttl).Err()
}

// Del removes a key.  Deleting an absent key is not an error.
func (s *RedisSessionStore) Del(ctx context.Context, key string) error {
	return s.Client.Del(ctx, key).Err()
}

// Alive probes the connection and never propagates an error.
func (s *RedisSessionStore) Alive(ctx context.Context) bool {
	return s.Client.Ping(ctx).Err() == nil
}
