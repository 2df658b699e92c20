// Package cache connects the shared Redis instance. The storefront keeps
// no catalog or cart data in it; it backs rate-limit counters and the job
// queue only.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chiquebutik/butik/config"
)

// Connect dials Redis from config and pings it. The client is closed and
// nil is returned when the ping fails.
func Connect(ctx context.Context) (*redis.Client, error) {
	return Dial(ctx, config.RedisAddr(), config.RedisPassword())
}

func Dial(ctx context.Context, addr, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("cache: redis ping %s: %w", addr, err)
	}
	return rdb, nil
}
