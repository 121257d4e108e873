package response

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/dmitrymomot/maw/core/handler"
)

// ErrNoRenderer is returned by Render when the application has no views.
var ErrNoRenderer = errors.New("response: no view renderer configured")

// Render executes the named view from the application's renderer. Output is
// buffered so a failing template leaves the response untouched.
func Render(c *handler.Ctx, name string, data any) handler.Response {
	views := c.Views()
	return func(w http.ResponseWriter, r *http.Request) error {
		if views == nil {
			return ErrNoRenderer
		}
		var buf bytes.Buffer
		if err := views.Render(&buf, name, data); err != nil {
			return fmt.Errorf("response: render %q: %w", name, err)
		}
		setContentType(w, contentTypeHTML)
		_, err := w.Write(buf.Bytes())
		return err
	}
}

// Template executes tmpl directly, without the application's renderer.
func Template(tmpl *template.Template, data any) handler.Response {
	if tmpl == nil {
		return nil
	}
	return func(w http.ResponseWriter, r *http.Request) error {
		var buf bytes.Buffer
		if err := tmpl.Execute(&buf, data); err != nil {
			return fmt.Errorf("response: template %q: %w", tmpl.Name(), err)
		}
		setContentType(w, contentTypeHTML)
		_, err := w.Write(buf.Bytes())
		return err
	}
}
