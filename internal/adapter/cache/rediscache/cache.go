// Package rediscache implements the injected result cache on Redis.
// Rendered recommendation lists are stored as JSON with a short TTL; the
// cache is passed to the service explicitly, never held as a process-wide
// singleton.
package rediscache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fairyhunter13/job-match-engine/internal/domain"
)

// Cache is a Redis-backed domain.ResultCache.
type Cache struct {
	client *redis.Client
	prefix string
}

// New constructs a Cache over the given client. prefix namespaces keys so
// several engines can share one Redis.
func New(client *redis.Client, prefix string) *Cache {
	if prefix == "" {
		prefix = "jobmatch"
	}
	return &Cache{client: client, prefix: prefix}
}

// GetResults returns the cached list for key, reporting a miss for both
// absent keys and entries that no longer unmarshal.
func (c *Cache) GetResults(ctx context.Context, key string) ([]domain.MatchResult, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("op=rediscache.Get: %w", err)
	}
	var results []domain.MatchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		// Treat a corrupt entry as a miss; it will be overwritten.
		return nil, false, nil
	}
	return results, true, nil
}

// SetResults stores the list under key for ttl.
func (c *Cache) SetResults(ctx context.Context, key string, results []domain.MatchResult, ttl time.Duration) error {
	raw, err := json.Marshal(results)
	if err != nil {
		return fmt.Errorf("op=rediscache.Set: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), raw, ttl).Err(); err != nil {
		return fmt.Errorf("op=rediscache.Set: %w", err)
	}
	return nil
}

func (c *Cache) key(key string) string {
	return c.prefix + ":" + key
}
