package health

import (
	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
)

// Liveness always answers 200 "ALIVE".
func Liveness(*handler.Ctx) handler.Response {
	return response.String("ALIVE")
}

// NoContent answers 204 without a body.
func NoContent(*handler.Ctx) handler.Response {
	return response.NoContent()
}
