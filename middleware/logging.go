package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/logger"
)

// LoggingConfig configures the request logging middleware.
type LoggingConfig struct {
	// Skip excludes requests from logging, e.g. health checks.
	Skip func(c *handler.Ctx) bool

	// Logger overrides the application logger.
	Logger *slog.Logger

	// LogLevel is used for successful requests (default: slog.LevelInfo).
	// Client errors are logged at warn and server errors at error level.
	LogLevel slog.Level

	// SlowRequestThreshold raises the level of slow successful requests to
	// warn. Zero disables the check.
	SlowRequestThreshold time.Duration

	// LogUserAgent adds the User-Agent header.
	LogUserAgent bool

	// Component name for structured logging (default: "http").
	Component string
}

// Logging logs every request after the chain has finished.
func Logging() handler.Func {
	return LoggingWithConfig(LoggingConfig{})
}

// LoggingWithLogger logs every request with log instead of the application logger.
func LoggingWithLogger(log *slog.Logger) handler.Func {
	return LoggingWithConfig(LoggingConfig{Logger: log})
}

// LoggingWithConfig logs status, duration, client ip, method and path of
// every request, plus the request id when RequestID runs earlier in the chain.
func LoggingWithConfig(cfg LoggingConfig) handler.Func {
	if cfg.Component == "" {
		cfg.Component = "http"
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		start := time.Now()
		c.Next()
		elapsed := time.Since(start)

		log := cfg.Logger
		if log == nil {
			log = c.Logger()
		}

		status := c.Status()
		if c.Closed() && status == 0 {
			status = http.StatusSwitchingProtocols
		}

		level := cfg.LogLevel
		switch {
		case status >= http.StatusInternalServerError:
			level = slog.LevelError
		case status >= http.StatusBadRequest:
			level = slog.LevelWarn
		case cfg.SlowRequestThreshold > 0 && elapsed > cfg.SlowRequestThreshold:
			level = slog.LevelWarn
		}

		attrs := []slog.Attr{
			logger.Component(cfg.Component),
			logger.Status(status),
			logger.Duration(elapsed),
			logger.ClientIP(c.IP()),
			logger.Method(c.Method()),
			logger.Path(c.Path()),
		}
		if id, ok := GetRequestID(c); ok {
			attrs = append(attrs, logger.RequestID(id))
		}
		if cfg.LogUserAgent {
			attrs = append(attrs, logger.UserAgent(c.Request().UserAgent()))
		}

		log.LogAttrs(c, level, "request", attrs...)
		return nil
	}
}
