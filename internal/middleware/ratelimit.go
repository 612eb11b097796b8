package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
)

// RateLimiter provides Redis-backed fixed window rate limiting per client.
type RateLimiter struct {
	rdb       *redis.Client
	maxReqs   int
	windowSec int
	skip      func(c fiber.Ctx) bool
}

// NewRateLimiter creates a rate limiter. A nil client disables limiting.
func NewRateLimiter(rdb *redis.Client, maxReqs, windowSec int) *RateLimiter {
	return &RateLimiter{
		rdb:       rdb,
		maxReqs:   maxReqs,
		windowSec: windowSec,
	}
}

// Skip excludes requests matching fn from limiting.
func (rl *RateLimiter) Skip(fn func(c fiber.Ctx) bool) *RateLimiter {
	rl.skip = fn
	return rl
}

// Handler returns a Fiber middleware handler for rate limiting.
func (rl *RateLimiter) Handler() fiber.Handler {
	return func(c fiber.Ctx) error {
		if rl.rdb == nil || (rl.skip != nil && rl.skip(c)) {
			return c.Next()
		}

		key := fmt.Sprintf("ratelimit:%s", ClientIP(c))
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		count, err := rl.rdb.Incr(ctx, key).Result()
		if err != nil {
			// fail open
			slog.Warn("rate limiter unavailable", "error", err)
			return c.Next()
		}

		if count == 1 {
			rl.rdb.Expire(ctx, key, time.Duration(rl.windowSec)*time.Second)
		}

		ttl, _ := rl.rdb.TTL(ctx, key).Result()

		c.Set("X-RateLimit-Limit", fmt.Sprintf("%d", rl.maxReqs))
		c.Set("X-RateLimit-Remaining", fmt.Sprintf("%d", max(0, int64(rl.maxReqs)-count)))
		c.Set("X-RateLimit-Reset", fmt.Sprintf("%d", int(ttl.Seconds())))

		if int(count) > rl.maxReqs {
			c.Set(fiber.HeaderRetryAfter, fmt.Sprintf("%d", int(ttl.Seconds())))
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "rate limit exceeded",
				"code":  "rate_limited",
			})
		}

		return c.Next()
	}
}
