// Package logger builds slog loggers and provides attribute helpers for the
// keys used across the framework.
//
// Create a logger with functional options:
//
//	log := logger.New(
//		logger.WithProduction("api"),
//		logger.WithLevel(slog.LevelWarn),
//	)
//
// Loggers can pull request-scoped values out of the context passed to the
// *Context logging methods:
//
//	log := logger.New(logger.WithContextExtractor(middleware.RequestIDExtractor))
//	log.InfoContext(c, "user created") // request_id is added automatically
//
// Attribute helpers return an empty slog.Attr for nil or empty input, which
// slog drops, so they are safe to use without checks:
//
//	log.Error("save failed", logger.Error(err), logger.Component("session"))
package logger
