package middleware

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/arlen/devconnector/internal/config"
	"github.com/arlen/devconnector/internal/handler"
)

// NewLoginRateLimit returns a fixed-window limiter for the credential
// endpoints, counting attempts per client IP in Redis. The first request
// of a window creates the counter with an expiry; once the limit is
// exceeded the request is rejected with 429 and a Retry-After hint.
// Without Redis the limiter is a pass-through: availability of login
// matters more than brute-force throttling.
func NewLoginRateLimit(cfg config.RateLimitConfig, rdb *redis.Client) echo.MiddlewareFunc {
	if !cfg.Enabled || rdb == nil {
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctx := c.Request().Context()
			key := fmt.Sprintf("%s:%s:%s", cfg.Prefix, c.Request().URL.Path, c.RealIP())

			n, err := rdb.Incr(ctx, key).Result()
			if err != nil {
				// Redis trouble must not lock users out.
				return next(c)
			}
			if n == 1 {
				_ = rdb.Expire(ctx, key, cfg.Window).Err()
			}
			if n > int64(cfg.Limit) {
				retry, err := rdb.TTL(ctx, key).Result()
				if err != nil || retry < 0 {
					retry = cfg.Window
				}
				c.Response().Header().Set("Retry-After", strconv.Itoa(int(retry.Seconds())))
				return handler.Fail(c, http.StatusTooManyRequests, "Too many attempts, try again later", nil)
			}
			return next(c)
		}
	}
}
