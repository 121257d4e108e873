package response

import (
	"encoding/json"
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
)

// JSON encodes v as the application/json body.
func JSON(v any) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		setContentType(w, contentTypeJSON)
		return json.NewEncoder(w).Encode(v)
	}
}

// JSONWithStatus encodes v with a custom status. A zero status means 200, or
// 204 when v is nil; 204 and 304 responses carry no body.
func JSONWithStatus(v any, status int) handler.Response {
	return func(w http.ResponseWriter, r *http.Request) error {
		code := status
		if code == 0 {
			code = http.StatusOK
			if v == nil {
				code = http.StatusNoContent
			}
		}
		w.WriteHeader(code)

		switch code {
		case http.StatusNoContent, http.StatusNotModified:
			return nil
		}
		setContentType(w, contentTypeJSON)
		return json.NewEncoder(w).Encode(v)
	}
}
