package idempotency

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Store remembers which queued orders a terminal already submitted, so a
// queue key is posted to the backend at most once.
type Store struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewStore(rdb *redis.Client, ttl time.Duration) *Store {
	return &Store{rdb: rdb, ttl: ttl}
}

func Key(terminalID string, orderedAt int64) string {
	return fmt.Sprintf("idem:order:%s:%d", terminalID, orderedAt)
}

// Seen marks the order as submitted and reports whether it already was.
func (s *Store) Seen(ctx context.Context, terminalID string, orderedAt int64) (bool, error) {
	ok, err := s.rdb.SetNX(ctx, Key(terminalID, orderedAt), "1", s.ttl).Result()
	if err != nil {
		return false, err
	}

	return !ok, nil
}
