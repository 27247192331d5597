// Package ratelimit gates sensitive endpoints with per-identity sliding
// budgets backed by Redis. When the backing store is unreachable or not
// configured the limiter fails open: availability is preferred over strict
// throttling, and an outage in Redis must not block all traffic.
package ratelimit

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
	redis_rate "github.com/go-redis/redis_rate/v9"
	"go.uber.org/zap"
)

// Category names an endpoint class with its own point budget and window.
type Category string

const (
	CategoryCreateOrder   Category = "create-order"
	CategoryVerifyPayment Category = "verify-payment"
	CategoryWebhook       Category = "webhook"
)

// Decision is the outcome of a rate-limit check.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Checker is the contract handlers depend on.
type Checker interface {
	Check(ctx context.Context, identifier string, category Category) Decision
}

// Limiter implements Checker with redis_rate (GCRA) over go-redis.
type Limiter struct {
	rl     *redis_rate.Limiter
	limits map[Category]redis_rate.Limit
	logger *zap.Logger
}

// NewRedisClientConfig contains options for the Redis connection backing
// the limiter.
type NewRedisClientConfig struct {
	Address  string
	Password string
	DB       int
}

// NewRedisClient connects to Redis and verifies the connection with a ping.
func NewRedisClient(ctx context.Context, cfg NewRedisClientConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return nil, err
	}
	return rdb, nil
}

// NewLimiter creates a Limiter with the default per-category budgets:
// 5/min order creation, 10/min payment verification, 100/min webhook
// ingestion. A nil rdb produces a limiter that always allows.
func NewLimiter(rdb *redis.Client, logger *zap.Logger) *Limiter {
	var rl *redis_rate.Limiter
	if rdb != nil {
		rl = redis_rate.NewLimiter(rdb)
	}
	return &Limiter{
		rl: rl,
		limits: map[Category]redis_rate.Limit{
			CategoryCreateOrder:   redis_rate.PerMinute(5),
			CategoryVerifyPayment: redis_rate.PerMinute(10),
			CategoryWebhook:       redis_rate.PerMinute(100),
		},
		logger: logger,
	}
}

// Check consumes one point from the identifier's budget for the category.
// Unknown categories and backing-store failures allow the request.
func (l *Limiter) Check(ctx context.Context, identifier string, category Category) Decision {
	if l.rl == nil {
		return Decision{Allowed: true}
	}
	limit, ok := l.limits[category]
	if !ok {
		return Decision{Allowed: true}
	}

	res, err := l.rl.Allow(ctx, "ratelimit:"+string(category)+":"+identifier, limit)
	if err != nil {
		// Fail open on backing-store failure.
		if l.logger != nil {
			l.logger.Warn("rate limiter backing store unavailable, allowing request",
				zap.String("category", string(category)),
				zap.Error(err))
		}
		return Decision{Allowed: true}
	}

	if res.Allowed == 0 {
		retry := res.RetryAfter
		if retry <= 0 {
			retry = time.Minute
		}
		return Decision{Allowed: false, RetryAfter: retry}
	}
	return Decision{Allowed: true}
}
