package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// LockStore handles distributed locking in Redis.
type LockStore struct {
	client *redis.Client
}

// NewLockStore creates a new LockStore.
func NewLockStore(client *redis.Client) *LockStore {
	return &LockStore{client: client}
}

// AcquireZoneTick attempts to acquire the recomputation lock for a zone.
// Returns true if the lock was acquired, false if another instance holds it.
func (s *LockStore) AcquireZoneTick(ctx context.Context, zoneID string, ttl time.Duration) (bool, error) {
	key := fmt.Sprintf("lock:tick:%s", zoneID)

	ok, err := s.client.SetNX(ctx, key, "1", ttl).Result()
	if err != nil {
		return false, err
	}

	return ok, nil
}

// ReleaseZoneTick releases the recomputation lock for a zone.
func (s *LockStore) ReleaseZoneTick(ctx context.Context, zoneID string) error {
	key := fmt.Sprintf("lock:tick:%s", zoneID)

	return s.client.Del(ctx, key).Err()
}
