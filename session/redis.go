package session

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisBinding persists the session record in Redis. Server-side console
// processes use it to share a hydrated session slot across replicas; the
// slot name is typically derived from the console user.
type RedisBinding struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisBinding creates a binding over the given Redis client. prefix
// namespaces the slot keys; ttl bounds how long a persisted record outlives
// its last write (0 means no expiry).
func NewRedisBinding(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisBinding {
	if prefix == "" {
		prefix = "agriauth"
	}
	return &RedisBinding{client: client, prefix: prefix, ttl: ttl}
}

func (b *RedisBinding) key(name string) string {
	return b.prefix + ":slot:" + name
}

func (b *RedisBinding) Read(name string) ([]byte, bool, error) {
	data, err := b.client.Get(context.Background(), b.key(name)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

func (b *RedisBinding) Write(name string, data []byte) error {
	return b.client.Set(context.Background(), b.key(name), data, b.ttl).Err()
}

func (b *RedisBinding) Remove(name string) error {
	return b.client.Del(context.Background(), b.key(name)).Err()
}
