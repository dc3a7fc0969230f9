package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

// Connect opens a Redis client and checks it with a ping.
func Connect(ctx context.Context, addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})

	pingCtx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return client, nil
}

// Redis shares counters across instances.
// Key format: ratelimit:<prefix>:<key>
type Redis struct {
	client redis.Cmdable
	prefix string
	limit  int
	period time.Duration
}

func NewRedis(client redis.Cmdable, prefix string, limit int, period time.Duration) *Redis {
	return &Redis{client: client, prefix: prefix, limit: limit, period: period}
}

func (r *Redis) Allow(ctx context.Context, key string) (bool, error) {
	k := fmt.Sprintf("ratelimit:%s:%s", r.prefix, key)

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, r.period)
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("ratelimit incr: %w", err)
	}
	return incr.Val() <= int64(r.limit), nil
}
