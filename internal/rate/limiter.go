// Package rate implementa rate limiting de ventana fija para el endpoint
// de introspección. Redis cuando hay varios réplicas compartiendo
// presupuesto, memoria para el modo standalone.
package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// Result es el veredicto de un intento.
type Result struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter decide si una key puede consumir un intento más.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// RedisLimiter es ventana fija sobre INCR + EXPIRE.
type RedisLimiter struct {
	client *rdb.Client
	prefix string
	max    int64
	window time.Duration
}

// NewRedisLimiter crea un limiter compartido entre réplicas.
func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{client: client, prefix: prefix, max: int64(max), window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now().UTC()
	winStart := now.Truncate(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, strings.ReplaceAll(key, " ", "_"), winStart.Unix())

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	ttl := pipe.TTL(ctx, redisKey)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, err
	}

	// la primera key de la ventana todavía no tiene expiry
	if incr.Val() == 1 {
		_ = l.client.Expire(ctx, redisKey, l.window).Err()
		ttl = l.client.TTL(ctx, redisKey)
	}

	hits := incr.Val()
	res := Result{
		Allowed:   hits <= l.max,
		Remaining: max64(l.max-hits, 0),
	}
	if !res.Allowed {
		res.RetryAfter = ttl.Val()
		if res.RetryAfter < 0 {
			res.RetryAfter = l.window
		}
	}
	return res, nil
}

func max64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
