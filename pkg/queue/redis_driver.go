package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultRedisKey = "butik:queue:jobs"

// RedisDriver uses a Redis list: LPUSH to enqueue, BRPOP to consume, so
// the web process and a separate queue:work process share one queue.
type RedisDriver struct {
	rdb     *redis.Client
	key     string
	timeout time.Duration
}

func NewRedisDriver(rdb *redis.Client, key string) *RedisDriver {
	if key == "" {
		key = DefaultRedisKey
	}
	return &RedisDriver{rdb: rdb, key: key, timeout: 5 * time.Second}
}

func (d *RedisDriver) Push(ctx context.Context, payload []byte) error {
	if err := d.rdb.LPush(ctx, d.key, payload).Err(); err != nil {
		return fmt.Errorf("queue/redis: push: %w", err)
	}
	return nil
}

func (d *RedisDriver) Pop(ctx context.Context) ([]byte, error) {
	result, err := d.rdb.BRPop(ctx, d.timeout, d.key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("queue/redis: pop: %w", err)
	}
	if len(result) < 2 {
		return nil, nil
	}
	return []byte(result[1]), nil
}
