package binder

import "net/http"

// Query binds URL query parameters to struct fields tagged `query:"name"`.
// Repeated keys and comma separated values fill slice fields.
func Query() Binder {
	return func(r *http.Request, v any) error {
		return bindValues(v, "query", r.URL.Query(), ErrFailedToParseQuery)
	}
}
