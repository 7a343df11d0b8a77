package middleware

import (
	"net/http"
	"time"

	"github.com/chenterphai/releasehub/internal/transport"
	"github.com/chenterphai/releasehub/pkg/logging"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

// RateLimiter throttles a route group with a fixed window per client
// IP, counted in Redis so the limit holds across replicas. Redis
// errors fail open.
type RateLimiter struct {
	Redis  *redis.Client
	Limit  int
	Window time.Duration
	Prefix string
}

func NewRateLimiter(client *redis.Client, limit int, window time.Duration, prefix string) *RateLimiter {
	return &RateLimiter{Redis: client, Limit: limit, Window: window, Prefix: prefix}
}

func (rl *RateLimiter) Middleware(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if rl == nil || rl.Redis == nil {
			return next(c)
		}

		ctx := c.Request().Context()
		key := rl.Prefix + ":" + c.RealIP()

		count, err := rl.Redis.Incr(ctx, key).Result()
		if err != nil {
			logging.FromContext(ctx).Warn("ratelimit_redis_error", "error", err)
			return next(c)
		}
		if count == 1 {
			if err := rl.Redis.Expire(ctx, key, rl.Window).Err(); err != nil {
				logging.FromContext(ctx).Warn("ratelimit_redis_error", "error", err)
			}
		}

		if count > int64(rl.Limit) {
			return c.JSON(http.StatusTooManyRequests,
				transport.Fail("Too many requests", "Too many requests, please try again later."))
		}

		return next(c)
	}
}
