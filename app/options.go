package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/router"
	"github.com/dmitrymomot/maw/core/server"
)

// Option configures an App.
type Option func(*App)

// WithRouter sets the root router. Nil is ignored.
func WithRouter(r *router.Router) Option {
	return func(a *App) {
		if r != nil {
			a.router = r
		}
	}
}

// WithLogger sets the logger used by the host, the server and handlers.
func WithLogger(logger *slog.Logger) Option {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
			a.globals.Logger = logger
		}
	}
}

// WithErrorHandler replaces handler.DefaultErrorHandler.
func WithErrorHandler(h handler.ErrorHandler) Option {
	return func(a *App) {
		if h != nil {
			a.globals.ErrorHandler = h
		}
	}
}

// WithViews sets the template renderer used by response.Render.
func WithViews(views handler.Renderer) Option {
	return func(a *App) {
		a.globals.Views = views
	}
}

// WithShutdownTimeout bounds how long in-flight requests may drain after
// the serve context is cancelled. Default: 10s.
func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

// WithCaseInsensitive folds request paths before lookup. Route patterns
// must then be registered in lower case.
func WithCaseInsensitive() Option {
	return func(a *App) {
		a.caseInsensitive = true
	}
}

// WithBodyLimit sets the default request body limit. A negative value
// disables the limit.
func WithBodyLimit(n int64) Option {
	return func(a *App) {
		a.globals.BodyLimit = n
	}
}

// WithProxyHeader names the header holding the client IP, e.g.
// X-Forwarded-For. Only set it behind a trusted proxy.
func WithProxyHeader(name string) Option {
	return func(a *App) {
		a.globals.ProxyHeader = name
	}
}

// WithLocal stores an application-wide value readable by every handler.
func WithLocal(key string, value any) Option {
	return func(a *App) {
		a.globals.Locals.Set(key, value)
	}
}

// WithServerOptions passes options to the underlying server, e.g. TLS or
// timeouts.
func WithServerOptions(opts ...server.Option) Option {
	return func(a *App) {
		a.serverOpts = append(a.serverOpts, opts...)
	}
}

// WithWorker runs fn next to the server for the lifetime of Serve. Its
// context is cancelled on shutdown, and an error from fn stops the server.
func WithWorker(fn func(ctx context.Context) error) Option {
	return func(a *App) {
		if fn != nil {
			a.workers = append(a.workers, fn)
		}
	}
}
