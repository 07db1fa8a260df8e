package disclosure

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/jamesdigid/uport-mobile/pkg/platform/sentinel"
)

const requestKeyPrefix = "uport:requests:"

// pendingTTL bounds how long an unanswered request survives. A request the
// user never acts on should not linger forever.
const pendingTTL = time.Hour

// RedisStore persists pending requests in Redis so an agent restart does not
// drop them.
type RedisStore struct {
	client redis.Cmdable
}

func NewRedisStore(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, req *Request) error {
	raw, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("encode pending request: %w", err)
	}
	if err := s.client.Set(ctx, requestKeyPrefix+req.ID, raw, pendingTTL).Err(); err != nil {
		return fmt.Errorf("save pending request: %w", err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Request, error) {
	raw, err := s.client.Get(ctx, requestKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, sentinel.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load pending request: %w", err)
	}
	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decode pending request: %w", err)
	}
	return &req, nil
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, requestKeyPrefix+id).Err(); err != nil {
		return fmt.Errorf("delete pending request: %w", err)
	}
	return nil
}
