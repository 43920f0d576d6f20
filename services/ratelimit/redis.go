package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisStore counts windows in Redis so multiple gateway instances enforce
// one shared ceiling per license.
type RedisStore struct {
	rdb *redis.Client
}

func NewRedisStore(rdb *redis.Client) *RedisStore {
	return &RedisStore{rdb: rdb}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	windowStart := time.Now().Truncate(window).UnixNano()
	rkey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart)

	count, err := s.rdb.Incr(ctx, rkey).Result()
	if err != nil {
		return 0, err
	}

	if count == 1 {
		// Twice the window so late stragglers still see the counter.
		_ = s.rdb.Expire(ctx, rkey, 2*window).Err()
	}

	return count, nil
}
