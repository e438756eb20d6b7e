package featureflag

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CacheBackend abstracts the key/value store behind the flag cache so the
// resolution engine stays correct without a live cache. Two implementations
// exist: a Redis-backed one and a no-op pass-through.
type CacheBackend interface {
	Get(key string) (string, bool, error)
	Set(key string, value string, ttl time.Duration) error
	Del(key string) error
}

// RedisBackend stores cache entries in Redis.
type RedisBackend struct {
	client *redis.Client
	ctx    context.Context
}

// NewRedisBackend creates a backend over the given Redis client
func NewRedisBackend(client *redis.Client) *RedisBackend {
	return &RedisBackend{client: client, ctx: context.Background()}
}

func (b *RedisBackend) Get(key string) (string, bool, error) {
	val, err := b.client.Get(b.ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (b *RedisBackend) Set(key string, value string, ttl time.Duration) error {
	return b.client.Set(b.ctx, key, value, ttl).Err()
}

func (b *RedisBackend) Del(key string) error {
	return b.client.Del(b.ctx, key).Err()
}

// NoopBackend never hits and never stores. Every read falls through to
// direct resolution.
type NoopBackend struct{}

func (NoopBackend) Get(string) (string, bool, error)        { return "", false, nil }
func (NoopBackend) Set(string, string, time.Duration) error { return nil }
func (NoopBackend) Del(string) error                        { return nil }
