package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers request keys for a bounded window so that replayed
// requests can be rejected instead of driving the workflow twice.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

// Seen marks the key and reports whether it had been marked before.
func (s *Store) Seen(ctx context.Context, key string) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, fmt.Sprintf("idem:%s", key), "1", s.ttl).Result()
	if err != nil {
		return false, err
	}
	return !ok, nil
}
