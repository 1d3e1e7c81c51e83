package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alpha-scanner/internal/service"
	"github.com/redis/go-redis/v9"
)

// snapshotKeyPrefix namespaces buyer snapshot keys.
// Format: buyers:<token-address>
const snapshotKeyPrefix = "buyers"

// SnapshotStore caches buyer snapshots in Redis with a short TTL so
// consecutive pages of one scan session share a single view of the token's
// transfer history. Wallet performance summaries are never cached here;
// they are recomputed on every request.
type SnapshotStore struct {
	redis *RedisCache
	ttl   time.Duration
}

// NewSnapshotStore creates a snapshot store with the given TTL
func NewSnapshotStore(redis *RedisCache, ttl time.Duration) *SnapshotStore {
	return &SnapshotStore{
		redis: redis,
		ttl:   ttl,
	}
}

// snapshotKey builds the cache key for a token's buyer snapshot
func snapshotKey(tokenAddress string) string {
	return fmt.Sprintf("%s:%s", snapshotKeyPrefix, strings.ToLower(tokenAddress))
}

// GetSnapshot returns the cached snapshot for a token. A cache miss is
// (nil, false, nil), not an error.
func (s *SnapshotStore) GetSnapshot(ctx context.Context, tokenAddress string) (*service.BuyerSnapshot, bool, error) {
	data, err := s.redis.Get(ctx, snapshotKey(tokenAddress))
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to get snapshot from cache: %w", err)
	}

	var snapshot service.BuyerSnapshot
	if err := json.Unmarshal([]byte(data), &snapshot); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached snapshot: %w", err)
	}

	return &snapshot, true, nil
}

// SetSnapshot stores a token's buyer snapshot with the configured TTL
func (s *SnapshotStore) SetSnapshot(ctx context.Context, tokenAddress string, snapshot *service.BuyerSnapshot) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	return s.redis.Set(ctx, snapshotKey(tokenAddress), data, s.ttl)
}
