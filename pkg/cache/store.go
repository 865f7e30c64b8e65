package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL is the expiry applied to entries when no per-entity
// override is configured.
const DefaultTTL = 300 * time.Second

// Store is the expiring byte k/v storage backing the read-through cache,
// wrapping a shared Redis client.
type Store struct {
	redis *redis.Client
}

// NewStore creates a cache store on top of an existing Redis client.
func NewStore(redisClient *redis.Client) *Store {
	if redisClient == nil {
		panic("redis client cannot be nil")
	}
	return &Store{
		redis: redisClient,
	}
}

// Get retrieves the raw bytes stored under key.
// A missing key returns (nil, nil); callers treat store errors as misses
// and fall back to the source (fail open).
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.redis.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		CacheErrors.WithLabelValues("get").Inc()
		return nil, fmt.Errorf("redis get: %w", err)
	}
	return data, nil
}

// Set stores val under key with the given TTL. Expired entries are
// evicted by Redis itself; the gateway never invalidates explicitly.
func (s *Store) Set(ctx context.Context, key string, val []byte, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if err := s.redis.Set(ctx, key, val, ttl).Err(); err != nil {
		CacheErrors.WithLabelValues("set").Inc()
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// Ping reports whether the backing Redis is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.redis.Ping(ctx).Err()
}
