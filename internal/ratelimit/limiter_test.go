package ratelimit

import (
	"context"
	"testing"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

func TestCheckAllowsWithoutBackingStore(t *testing.T) {
	limiter := NewLimiter(nil, zap.NewNop())

	decision := limiter.Check(context.Background(), "user-1", CategoryCreateOrder)
	if !decision.Allowed {
		t.Error("expected allow when no Redis client is configured")
	}
}

func TestCheckAllowsUnknownCategory(t *testing.T) {
	// The client is never dialed for an unknown category.
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	limiter := NewLimiter(rdb, zap.NewNop())

	decision := limiter.Check(context.Background(), "user-1", Category("bulk-export"))
	if !decision.Allowed {
		t.Error("expected allow for an unknown category")
	}
}

func TestCheckFailsOpenWhenRedisUnreachable(t *testing.T) {
	rdb := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1"})
	defer rdb.Close()
	limiter := NewLimiter(rdb, zap.NewNop())

	decision := limiter.Check(context.Background(), "user-1", CategoryVerifyPayment)
	if !decision.Allowed {
		t.Error("expected allow when the backing store is unreachable")
	}
}
