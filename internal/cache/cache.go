package cache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// RedisSnapshot keeps a named saved-places snapshot under a single Redis key.
// The key never expires.
type RedisSnapshot struct {
	client *redis.Client
	name   string
}

// NewRedisSnapshot constructs a RedisSnapshot.
func NewRedisSnapshot(client *redis.Client, name string) *RedisSnapshot {
	return &RedisSnapshot{client: client, name: name}
}

// key returns the Redis key for the snapshot name.
func key(name string) string {
	return "snapshot:" + strings.ToLower(strings.TrimSpace(name))
}

// LoadSnapshot retrieves the stored payload.
// Returns nil, nil when the key is absent (not an error).
func (s *RedisSnapshot) LoadSnapshot(ctx context.Context) ([]byte, error) {
	val, err := s.client.Get(ctx, key(s.name)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("redis get for snapshot %s: %w", s.name, err)
	}
	return val, nil
}

// SaveSnapshot overwrites the stored payload.
func (s *RedisSnapshot) SaveSnapshot(ctx context.Context, blob []byte) error {
	if err := s.client.Set(ctx, key(s.name), blob, 0).Err(); err != nil {
		return fmt.Errorf("redis set for snapshot %s: %w", s.name, err)
	}
	return nil
}

// Ping verifies the Redis server is reachable.
func (s *RedisSnapshot) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("pinging redis: %w", err)
	}
	return nil
}
