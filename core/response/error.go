package response

import (
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
)

// Error hands err to the application's error handler. A nil err produces no
// output.
func Error(err error) handler.Response {
	if err == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		return err
	}
}

// Result returns resp when err is nil and Error(err) otherwise.
func Result(resp handler.Response, err error) handler.Response {
	if err != nil {
		return Error(err)
	}
	return resp
}

// Option returns resp when ok is true and a 404 otherwise.
func Option(resp handler.Response, ok bool) handler.Response {
	if !ok {
		return Error(handler.ErrNotFound)
	}
	return resp
}
