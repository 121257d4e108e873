package session

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound      = errors.New("session not found")
	ErrPlainCookie   = errors.New("session cookie cannot be plain")
	ErrNilCookies    = errors.New("session manager requires a cookie manager")
	ErrInvalidValue  = errors.New("session value cannot be encoded")
	ErrNoSession     = errors.New("no session attached to request")
	ErrCorruptedData = errors.New("stored session data is corrupted")
)

// KeyNotFoundError is returned when a requested key is missing. It renders as
// 400 Bad Request.
type KeyNotFoundError struct {
	Key string
}

func (e KeyNotFoundError) Error() string {
	return fmt.Sprintf("session key not found: %s", e.Key)
}

func (e KeyNotFoundError) StatusCode() int {
	return http.StatusBadRequest
}

// DecodeError is returned when a stored value does not fit the requested
// type. It renders as 422 Unprocessable Entity.
type DecodeError struct {
	Key string
	Err error
}

func (e DecodeError) Error() string {
	return fmt.Sprintf("session value %q has unexpected type: %v", e.Key, e.Err)
}

func (e DecodeError) Unwrap() error {
	return e.Err
}

func (e DecodeError) StatusCode() int {
	return http.StatusUnprocessableEntity
}
