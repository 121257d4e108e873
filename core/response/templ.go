package response

import (
	"fmt"
	"net/http"

	"github.com/a-h/templ"

	"github.com/dmitrymomot/maw/core/handler"
)

// Templ renders a templ component as HTML using the request context, so
// components can read request-scoped values.
func Templ(component templ.Component) handler.Response {
	if component == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		setContentType(w, contentTypeHTML)
		if err := component.Render(r.Context(), w); err != nil {
			return fmt.Errorf("response: templ component: %w", err)
		}
		return nil
	}
}
