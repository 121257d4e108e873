package router

import (
	"errors"
	"fmt"
)

var (
	// Builder errors
	ErrInvalidPath      = errors.New("path must start with / and not end with /")
	ErrNilRouter        = errors.New("nil router")
	ErrDuplicateHandler = errors.New("duplicate handler")

	// Tree errors
	ErrInvalidPattern   = errors.New("invalid route path pattern")
	ErrWildcardPosition = errors.New("wildcard position must be last")
	ErrParamDelimiter   = errors.New("param must span a whole segment")
	ErrDuplicateParam   = errors.New("duplicate parameter name")
	ErrRouteConflict    = errors.New("route conflict")
)

// RouteConflictError is returned by Build when two patterns are equivalent
// for matching purposes.
type RouteConflictError struct {
	Pattern  string
	Existing string
}

func (e *RouteConflictError) Error() string {
	return fmt.Sprintf("route conflict: %q is equivalent to already registered %q", e.Pattern, e.Existing)
}

func (e *RouteConflictError) Unwrap() error {
	return ErrRouteConflict
}
