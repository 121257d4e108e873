package binder

import "net/http"

// Binder maps one part of a request (body, query string or path
// parameters) onto a Go value.
type Binder func(r *http.Request, v any) error
