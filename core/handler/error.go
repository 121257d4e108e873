package handler

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNilHandler         = errors.New("nil handler func")
	ErrInvalidMethod      = errors.New("invalid http method")
	ErrStateType          = errors.New("handler state has unexpected type")
	ErrBodyAlreadyRead    = errors.New("request body already consumed")
	ErrHijackNotSupported = errors.New("response writer does not support hijacking")
)

// StatusError is an error that renders as a status code with a brief message.
type StatusError struct {
	Code  int
	Brief string
}

// NewStatusError creates a StatusError. An empty brief defaults to the
// canonical status text.
func NewStatusError(code int, brief string) StatusError {
	if brief == "" {
		brief = http.StatusText(code)
	}
	return StatusError{Code: code, Brief: brief}
}

// Error implements the error interface.
func (e StatusError) Error() string {
	return fmt.Sprintf("%d %s", e.Code, e.Brief)
}

// StatusCode returns the HTTP status code of the error.
func (e StatusError) StatusCode() int {
	return e.Code
}

// WithBrief returns a copy of the error with a different message.
func (e StatusError) WithBrief(brief string) StatusError {
	e.Brief = brief
	return e
}

// Predefined status errors.
var (
	ErrBadRequest           = NewStatusError(http.StatusBadRequest, "")
	ErrUnauthorized         = NewStatusError(http.StatusUnauthorized, "")
	ErrForbidden            = NewStatusError(http.StatusForbidden, "")
	ErrNotFound             = NewStatusError(http.StatusNotFound, "")
	ErrMethodNotAllowed     = NewStatusError(http.StatusMethodNotAllowed, "")
	ErrConflict             = NewStatusError(http.StatusConflict, "")
	ErrPayloadTooLarge      = NewStatusError(http.StatusRequestEntityTooLarge, "")
	ErrUnsupportedMediaType = NewStatusError(http.StatusUnsupportedMediaType, "")
	ErrUnprocessableEntity  = NewStatusError(http.StatusUnprocessableEntity, "")
	ErrTooManyRequests      = NewStatusError(http.StatusTooManyRequests, "")
	ErrInternalServerError  = NewStatusError(http.StatusInternalServerError, "")
	ErrServiceUnavailable   = NewStatusError(http.StatusServiceUnavailable, "")
)

// statusCoder is implemented by errors that carry their own status code.
type statusCoder interface {
	StatusCode() int
}

// DefaultErrorHandler replaces the buffered body with a plain-text message.
// StatusError values keep their brief; other errors carrying a 4xx status code
// expose their message; everything else becomes a logged 500.
func DefaultErrorHandler(c *Ctx, err error) {
	if c.w.committed {
		c.Logger().ErrorContext(c, "error after response committed", "error", err)
		return
	}

	status := http.StatusInternalServerError
	brief := http.StatusText(status)

	var se StatusError
	var sc statusCoder
	var mbe *http.MaxBytesError
	switch {
	case errors.As(err, &se):
		status, brief = se.Code, se.Brief
	case errors.As(err, &mbe):
		status, brief = http.StatusRequestEntityTooLarge, http.StatusText(http.StatusRequestEntityTooLarge)
	case errors.As(err, &sc):
		status = sc.StatusCode()
		brief = http.StatusText(status)
		if status < http.StatusInternalServerError {
			brief = err.Error()
		}
	}

	if status >= http.StatusInternalServerError {
		c.Logger().ErrorContext(c, "request failed",
			"error", err,
			"method", c.req.Method,
			"path", c.req.URL.Path,
		)
	}

	c.ResetBody()
	c.SetStatus(status)
	c.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = c.w.Write([]byte(brief))
}
