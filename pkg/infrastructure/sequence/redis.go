package sequence

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/vsinha/bomgen/pkg/domain/repositories"
)

// RedisStore allocates sequence numbers with Redis INCR, which is atomic
// per key, so counters stay correct across processes.
type RedisStore struct {
	client    *redis.Client
	keyPrefix string
}

// NewRedisStore creates a Redis-backed sequence store. Keys are
// "<prefix>:<category>".
func NewRedisStore(client *redis.Client, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = "bomgen:seq"
	}
	return &RedisStore{client: client, keyPrefix: keyPrefix}
}

// Verify interface compliance
var _ repositories.SequenceStore = (*RedisStore)(nil)

// Next returns the next number for a category, starting at 1
func (s *RedisStore) Next(ctx context.Context, category string) (int64, error) {
	n, err := s.client.Incr(ctx, s.keyPrefix+":"+category).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to increment sequence %s: %w", category, err)
	}
	return n, nil
}
