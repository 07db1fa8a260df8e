package connections

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "uport:connections:"

// RedisStore keeps connections in Redis sorted sets so insertion order
// survives restarts and is shared between nodes.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(owner, kind string) string {
	return redisKeyPrefix + owner + ":" + kind
}

func (s *RedisStore) Add(ctx context.Context, owner, kind, value string) error {
	// NX keeps the original score, so re-adding does not reorder.
	err := s.client.ZAddNX(ctx, redisKey(owner, kind), redis.Z{
		Score:  float64(time.Now().UnixNano()),
		Member: value,
	}).Err()
	if err != nil {
		return fmt.Errorf("add connection: %w", err)
	}
	return nil
}

func (s *RedisStore) Remove(ctx context.Context, owner, kind, value string) error {
	if err := s.client.ZRem(ctx, redisKey(owner, kind), value).Err(); err != nil {
		return fmt.Errorf("remove connection: %w", err)
	}
	return nil
}

func (s *RedisStore) List(ctx context.Context, owner, kind string) ([]string, error) {
	values, err := s.client.ZRange(ctx, redisKey(owner, kind), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("list connections: %w", err)
	}
	return values, nil
}
