// Package ratelimit bounds intake submissions per client IP with a fixed
// window counter in Redis. The limiter fails open: if Redis is unreachable
// the request proceeds, since losing a waitlist signup costs more than a
// burst of extra submissions.
package ratelimit

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/cove-house/waitlist-service/internal/config"
)

// Limiter is a Fiber middleware factory.
type Limiter struct {
	client *redis.Client
	cfg    config.RateLimitConfig
	logger *zap.Logger
}

// NewLimiter constructs the limiter.
func NewLimiter(client *redis.Client, cfg config.RateLimitConfig, logger *zap.Logger) *Limiter {
	return &Limiter{client: client, cfg: cfg, logger: logger}
}

// Handle counts requests per IP per window and rejects the overflow.
func (l *Limiter) Handle(c *fiber.Ctx) error {
	if l == nil || l.client == nil || !l.cfg.Enabled {
		return c.Next()
	}

	key := fmt.Sprintf("ratelimit:waitlist:%s", c.IP())
	ctx := c.UserContext()

	count, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		l.logger.Warn("rate limiter unavailable; allowing request", zap.Error(err))
		return c.Next()
	}
	if count == 1 {
		if err := l.client.Expire(ctx, key, l.cfg.Window()).Err(); err != nil {
			l.logger.Warn("rate limiter expire failed", zap.Error(err))
		}
	}
	if count > int64(l.cfg.MaxPerWindow) {
		return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
			"error": "Too many submissions, try again later.",
		})
	}
	return c.Next()
}
