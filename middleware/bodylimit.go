package middleware

import (
	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
)

// BodyLimitConfig configures the body limit middleware.
type BodyLimitConfig struct {
	// Skip leaves the limit untouched for matching requests.
	Skip func(c *handler.Ctx) bool

	// MaxSize in bytes (default: handler.DefaultBodyLimit). A negative value
	// disables the limit.
	MaxSize int64
}

// BodyLimit overrides the application body limit for the routes below it.
func BodyLimit(maxSize int64) handler.Func {
	return BodyLimitWithConfig(BodyLimitConfig{MaxSize: maxSize})
}

// BodyLimitWithConfig sets the limit read by Ctx.Body and rejects requests
// whose declared Content-Length exceeds it with 413.
func BodyLimitWithConfig(cfg BodyLimitConfig) handler.Func {
	if cfg.MaxSize == 0 {
		cfg.MaxSize = handler.DefaultBodyLimit
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		c.SetBodyLimit(cfg.MaxSize)
		if cfg.MaxSize > 0 && c.Request().ContentLength > cfg.MaxSize {
			return response.Error(handler.ErrPayloadTooLarge)
		}

		c.Next()
		return nil
	}
}
