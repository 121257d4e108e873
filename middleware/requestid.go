package middleware

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/logger"
)

// DefaultRequestIDHeader carries the request id in both directions.
const DefaultRequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDConfig configures the request ID middleware.
type RequestIDConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(c *handler.Ctx) bool
	// Generator creates new request IDs (default: UUID v4).
	Generator func() string
	// HeaderName specifies the header name for the request ID (default: "X-Request-ID").
	HeaderName string
	// UseExisting reuses the id sent by the client, if any.
	UseExisting bool
}

// RequestID assigns a new UUID to every request.
func RequestID() handler.Func {
	return RequestIDWithConfig(RequestIDConfig{})
}

// RequestIDWithConfig stores the id for later handlers and echoes it in the
// response headers.
func RequestIDWithConfig(cfg RequestIDConfig) handler.Func {
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultRequestIDHeader
	}
	if cfg.Generator == nil {
		cfg.Generator = uuid.NewString
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		var id string
		if cfg.UseExisting {
			id = c.Request().Header.Get(cfg.HeaderName)
		}
		if id == "" {
			id = cfg.Generator()
		}

		c.SetValue(requestIDKey{}, id)
		c.Header().Set(cfg.HeaderName, id)
		c.Next()
		return nil
	}
}

// GetRequestID returns the id assigned by RequestID.
func GetRequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

// RequestIDExtractor adds the request id to records logged with a *handler.Ctx
// as context. Register it with logger.WithContextExtractor.
func RequestIDExtractor(ctx context.Context) (slog.Attr, bool) {
	id, ok := GetRequestID(ctx)
	if !ok {
		return slog.Attr{}, false
	}
	return logger.RequestID(id), true
}
