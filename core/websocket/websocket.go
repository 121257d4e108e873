// Package websocket upgrades requests to websocket connections and runs a
// connection handler for each of them.
//
// The upgrade hijacks the connection, which closes the request context: no
// further middleware output is written. The connection handler then runs on
// its own goroutine with a context that survives the request but is cancelled
// when the application shuts down.
package websocket

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/dmitrymomot/maw/core/handler"
)

// Func handles one upgraded connection. The connection is closed when it
// returns.
type Func func(ctx context.Context, conn *websocket.Conn) error

type config struct {
	upgrader       websocket.Upgrader
	responseHeader http.Header
	onError        func(ctx context.Context, err error)
}

// Option configures the upgrade.
type Option func(*config)

// WithReadBuffer sets the read buffer size in bytes.
func WithReadBuffer(size int) Option {
	return func(c *config) {
		c.upgrader.ReadBufferSize = size
	}
}

// WithWriteBuffer sets the write buffer size in bytes.
func WithWriteBuffer(size int) Option {
	return func(c *config) {
		c.upgrader.WriteBufferSize = size
	}
}

// WithHandshakeTimeout limits the duration of the handshake.
func WithHandshakeTimeout(d time.Duration) Option {
	return func(c *config) {
		c.upgrader.HandshakeTimeout = d
	}
}

// WithOriginCheck replaces the default same-origin check.
func WithOriginCheck(fn func(r *http.Request) bool) Option {
	return func(c *config) {
		c.upgrader.CheckOrigin = fn
	}
}

// WithAllowAnyOrigin accepts connections from every origin.
func WithAllowAnyOrigin() Option {
	return WithOriginCheck(func(*http.Request) bool { return true })
}

// WithSubprotocols sets the supported subprotocols in order of preference.
func WithSubprotocols(protocols ...string) Option {
	return func(c *config) {
		c.upgrader.Subprotocols = protocols
	}
}

// WithResponseHeader adds headers to the upgrade response.
func WithResponseHeader(h http.Header) Option {
	return func(c *config) {
		c.responseHeader = h
	}
}

// WithErrorHandler receives errors returned by the connection handler.
// By default they are logged with the application logger.
func WithErrorHandler(fn func(ctx context.Context, err error)) Option {
	return func(c *config) {
		c.onError = fn
	}
}

// IsWebSocket reports whether r asks for a websocket upgrade.
func IsWebSocket(r *http.Request) bool {
	return websocket.IsWebSocketUpgrade(r)
}

// Handler returns a handler that upgrades the request and runs fn on the
// connection. Requests that are not upgrade requests get 400.
func Handler(fn Func, opts ...Option) handler.Func {
	if fn == nil {
		panic("websocket: nil connection handler")
	}
	cfg := &config{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(c *handler.Ctx) handler.Response {
		if !IsWebSocket(c.Request()) {
			return func(http.ResponseWriter, *http.Request) error {
				return handler.ErrBadRequest.WithBrief("websocket upgrade required")
			}
		}

		logger := c.Logger()
		base := c.BaseContext()
		onError := cfg.onError
		if onError == nil {
			onError = func(ctx context.Context, err error) {
				logger.ErrorContext(ctx, "websocket handler failed", "error", err)
			}
		}

		return func(w http.ResponseWriter, r *http.Request) error {
			conn, err := cfg.upgrader.Upgrade(w, r, cfg.responseHeader)
			if err != nil {
				// The upgrader has already written the error response.
				logger.DebugContext(r.Context(), "websocket upgrade failed", "error", err)
				return nil
			}

			ctx, cancel := context.WithCancel(context.WithoutCancel(r.Context()))
			stop := context.AfterFunc(base, cancel)

			go func() {
				defer cancel()
				defer stop()
				defer conn.Close()

				// Unblock reads when the application stops.
				unwatch := context.AfterFunc(ctx, func() { _ = conn.Close() })
				defer unwatch()

				if err := fn(ctx, conn); err != nil {
					onError(ctx, err)
				}
			}()
			return nil
		}
	}
}
