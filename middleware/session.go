package middleware

import (
	"context"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/logger"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/core/session"
)

type sessionIDKey struct{}

// SessionConfig configures the session middleware.
type SessionConfig struct {
	// Skip leaves matching requests without a session.
	Skip func(c *handler.Ctx) bool

	// FailOnLoadError answers 500 when the store cannot be reached instead of
	// continuing with an empty session.
	FailOnLoadError bool
}

// Session loads the request session before the rest of the chain and saves
// it afterwards when it was modified.
func Session(m *session.Manager) handler.Func {
	return SessionWithConfig(m, SessionConfig{})
}

// SessionWithConfig is Session with custom configuration.
// Handlers read the session with session.From.
func SessionWithConfig(m *session.Manager, cfg SessionConfig) handler.Func {
	if m == nil {
		panic(session.ErrNoSession)
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		s, id, err := m.Load(c, c.Request())
		if err != nil {
			if cfg.FailOnLoadError {
				return response.Error(err)
			}
			c.Logger().WarnContext(c, "session load failed", logger.Error(err), logger.Component("session"))
		}
		session.Attach(c, s)
		c.SetValue(sessionIDKey{}, id)

		c.Next()

		if !s.Modified() {
			return nil
		}
		if c.Closed() || c.Written() {
			c.Logger().WarnContext(c, "session modified after response was sent", logger.SessionID(id))
			return nil
		}
		if _, err := m.Save(c, c.ResponseWriter(), id, s); err != nil {
			return response.Error(err)
		}
		return nil
	}
}

// SessionID returns the id of the session loaded for this request. It is empty
// for new sessions and for sessions stored in the cookie itself.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionIDKey{}).(string)
	return id
}
