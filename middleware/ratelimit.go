package middleware

import (
	"fmt"
	"math"
	"strconv"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/pkg/ratelimiter"
)

// RateLimitConfig configures the rate limiting middleware.
type RateLimitConfig struct {
	// Skip bypasses the limiter for matching requests.
	Skip func(c *handler.Ctx) bool

	// Limiter is required.
	Limiter ratelimiter.RateLimiter

	// KeyFunc identifies the caller (default: client IP).
	KeyFunc func(c *handler.Ctx) string

	// OnLimit builds the response for a denied request
	// (default: 429 Too Many Requests).
	OnLimit func(c *handler.Ctx, result *ratelimiter.Result) handler.Response

	// SetHeaders adds X-RateLimit-Limit, X-RateLimit-Remaining and
	// X-RateLimit-Reset to every response.
	SetHeaders bool
}

// RateLimit rejects callers whose bucket is empty. Denied responses always
// carry Retry-After. It panics when no limiter is configured.
//
//	limiter, _ := ratelimiter.NewBucket(store, ratelimiter.Config{
//		Capacity:       10,
//		RefillRate:     1,
//		RefillInterval: time.Minute,
//	})
//	router.Group("/auth").Middleware(middleware.RateLimit(middleware.RateLimitConfig{
//		Limiter:    limiter,
//		SetHeaders: true,
//	}))
func RateLimit(cfg RateLimitConfig) handler.Func {
	if cfg.Limiter == nil {
		panic("ratelimit middleware: limiter is required")
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = func(c *handler.Ctx) string { return c.IP() }
	}
	if cfg.OnLimit == nil {
		cfg.OnLimit = func(*handler.Ctx, *ratelimiter.Result) handler.Response {
			return response.Error(handler.ErrTooManyRequests)
		}
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		result, err := cfg.Limiter.Allow(c, cfg.KeyFunc(c))
		if err != nil {
			return response.Error(fmt.Errorf("rate limit: %w", err))
		}

		if cfg.SetHeaders {
			h := c.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(0, result.Remaining)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))
		}

		if !result.Allowed() {
			seconds := int(math.Ceil(result.RetryAfter().Seconds()))
			c.Header().Set("Retry-After", strconv.Itoa(max(1, seconds)))
			return cfg.OnLimit(c, result)
		}

		c.Next()
		return nil
	}
}
