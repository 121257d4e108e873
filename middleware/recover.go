package middleware

import (
	"log/slog"
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/logger"
	"github.com/dmitrymomot/maw/core/response"
)

// RecoverConfig configures the panic recovery middleware.
type RecoverConfig struct {
	// Logger overrides the application logger.
	Logger *slog.Logger

	// DisableStack omits the stack trace from the log record.
	DisableStack bool

	// OnPanic builds the response for a recovered value.
	// Defaults to a 500 through the application error handler.
	OnPanic func(c *handler.Ctx, v any) handler.Response
}

// Recover catches panics raised further down the chain, logs them and
// answers 500.
func Recover() handler.Func {
	return RecoverWithConfig(RecoverConfig{})
}

// RecoverWithConfig is Recover with custom configuration.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func RecoverWithConfig(cfg RecoverConfig) handler.Func {
	return func(c *handler.Ctx) (resp handler.Response) {
		defer func() {
			v := recover()
			if v == nil {
				return
			}
			if v == http.ErrAbortHandler {
				panic(v)
			}

			log := cfg.Logger
			if log == nil {
				log = c.Logger()
			}
			attrs := []slog.Attr{
				logger.Panic(v),
				logger.Method(c.Method()),
				logger.Path(c.Path()),
			}
			if !cfg.DisableStack {
				attrs = append(attrs, logger.Stack())
			}
			log.LogAttrs(c, slog.LevelError, "panic recovered", attrs...)

			if cfg.OnPanic != nil {
				resp = cfg.OnPanic(c, v)
				return
			}
			resp = response.Error(handler.ErrInternalServerError)
		}()

		c.Next()
		return nil
	}
}
