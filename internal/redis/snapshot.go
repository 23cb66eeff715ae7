package redis

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// SnapshotCacheTTL keeps analytics recomputation off the hot path without
// letting the dashboard drift far behind the sample stream.
const SnapshotCacheTTL = 30 * time.Second

const snapshotCachePrefix = "cache:analytics:"

// SnapshotCache caches computed analytics summaries keyed by range token.
type SnapshotCache struct {
	client *redis.Client
}

// NewSnapshotCache creates a new SnapshotCache.
func NewSnapshotCache(client *redis.Client) *SnapshotCache {
	return &SnapshotCache{client: client}
}

// Get retrieves a cached summary into dest. Returns false on cache miss.
func (s *SnapshotCache) Get(ctx context.Context, rangeToken string, dest any) (bool, error) {
	data, err := s.client.Get(ctx, snapshotCachePrefix+rangeToken).Bytes()
	if err != nil {
		if err == redis.Nil {
			return false, nil // Cache miss
		}
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a computed summary under its range token.
func (s *SnapshotCache) Set(ctx context.Context, rangeToken string, summary any) error {
	data, err := json.Marshal(summary)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, snapshotCachePrefix+rangeToken, data, SnapshotCacheTTL).Err()
}
