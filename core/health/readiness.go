package health

import (
	"context"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/logger"
	"github.com/dmitrymomot/maw/core/response"
)

// Readiness runs every check in order and answers "READY", or 503 Service
// Unavailable at the first failure. Failures are logged, not exposed.
func Readiness(checks ...func(context.Context) error) handler.Func {
	return func(c *handler.Ctx) handler.Response {
		for _, check := range checks {
			if err := check(c); err != nil {
				c.Logger().ErrorContext(c, "readiness check failed", logger.Component("health"), logger.Error(err))
				return response.Error(handler.ErrServiceUnavailable)
			}
		}
		return response.String("READY")
	}
}
