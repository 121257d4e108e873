package response_test

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
)

// exec runs fn as the only handler of a GET chain and returns the recorded
// response.
func exec(t *testing.T, g *handler.Globals, req *http.Request, chain ...handler.Func) *httptest.ResponseRecorder {
	t.Helper()
	if req == nil {
		req = httptest.NewRequest(http.MethodGet, "/", nil)
	}
	handlers := make([]*handler.Handler, len(chain))
	for i, fn := range chain {
		if i == len(chain)-1 {
			handlers[i] = handler.NewMethod(req.Method, fn)
			continue
		}
		handlers[i] = handler.NewMiddleware(fn)
	}

	rec := httptest.NewRecorder()
	c := handler.NewCtx(rec, req, handlers, nil, g)
	c.Next()
	c.Finish()
	return rec
}

func respond(resp handler.Response) handler.Func {
	return func(*handler.Ctx) handler.Response { return resp }
}

func TestBodyConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       handler.Response
		wantType   string
		wantBody   string
		wantStatus int
		wantLength string
	}{
		{"string", response.String("Hello, World!"), "text/plain; charset=utf-8", "Hello, World!", http.StatusOK, "13"},
		{"empty string", response.String(""), "text/plain; charset=utf-8", "", http.StatusOK, ""},
		{"html", response.HTML("<p>hi</p>"), "text/html; charset=utf-8", "<p>hi</p>", http.StatusOK, "9"},
		{"bytes", response.Bytes([]byte{1, 2, 3}, "application/x-test"), "application/x-test", "\x01\x02\x03", http.StatusOK, "3"},
		{"bytes default type", response.Bytes([]byte("x"), ""), "application/octet-stream", "x", http.StatusOK, "1"},
		{"json", response.JSON(map[string]int{"id": 1}), "application/json; charset=utf-8", "{\"id\":1}\n", http.StatusOK, "9"},
		{"unit", nil, "", "", http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := exec(t, nil, nil, respond(tt.resp))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantType, rec.Header().Get("Content-Type"))
			assert.Equal(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, tt.wantLength, rec.Header().Get("Content-Length"))
		})
	}
}

func TestBodyConversionsKeepStatus(t *testing.T) {
	t.Parallel()

	setCreated := func(c *handler.Ctx) handler.Response {
		c.SetStatus(http.StatusCreated)
		c.Next()
		return nil
	}

	rec := exec(t, nil, nil, setCreated, respond(response.String("made")))
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "made", rec.Body.String())
}

func TestBodyConversionsKeepContentType(t *testing.T) {
	t.Parallel()

	rec := exec(t, nil, nil, func(c *handler.Ctx) handler.Response {
		c.Header().Set("Content-Type", "text/csv")
		return response.String("a,b")
	})
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestStatusConversions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       handler.Response
		wantStatus int
		wantBody   string
	}{
		{"status", response.Status(http.StatusAccepted), http.StatusAccepted, ""},
		{"send status", response.SendStatus(http.StatusTeapot), http.StatusTeapot, "I'm a teapot"},
		{"no content", response.NoContent(), http.StatusNoContent, ""},
		{"with status", response.WithStatus(response.String("gone"), http.StatusGone), http.StatusGone, "gone"},
		{"json with status", response.JSONWithStatus([]int{1}, http.StatusCreated), http.StatusCreated, "[1]\n"},
		{"json nil", response.JSONWithStatus(nil, 0), http.StatusNoContent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := exec(t, nil, nil, respond(tt.resp))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

func TestWithHeader(t *testing.T) {
	t.Parallel()

	rec := exec(t, nil, nil, respond(response.WithHeader(response.String("ok"), "X-Test", "1")))
	assert.Equal(t, "1", rec.Header().Get("X-Test"))
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRedirect(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		resp       handler.Response
		htmx       bool
		wantStatus int
		wantHeader string
		wantValue  string
	}{
		{"found", response.Redirect("/login"), false, http.StatusFound, "Location", "/login"},
		{"see other", response.RedirectSeeOther("/done"), false, http.StatusSeeOther, "Location", "/done"},
		{"permanent", response.RedirectPermanent("/new"), false, http.StatusMovedPermanently, "Location", "/new"},
		{"invalid status", response.RedirectWithStatus("/x", http.StatusOK), false, http.StatusFound, "Location", "/x"},
		{"htmx", response.Redirect("/login"), true, http.StatusOK, "HX-Location", "/login"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.htmx {
				req.Header.Set("HX-Request", "true")
			}
			rec := exec(t, nil, req, respond(tt.resp))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantValue, rec.Header().Get(tt.wantHeader))
		})
	}
}

func TestErrorConversions(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")

	tests := []struct {
		name       string
		resp       handler.Response
		wantStatus int
		wantBody   string
	}{
		{"error", response.Error(handler.ErrForbidden), http.StatusForbidden, "Forbidden"},
		{"nil error", response.Error(nil), http.StatusOK, ""},
		{"wrapped status error", response.Error(fmt.Errorf("load: %w", handler.ErrConflict.WithBrief("taken"))), http.StatusConflict, "taken"},
		{"plain error", response.Error(errBoom), http.StatusInternalServerError, "Internal Server Error"},
		{"result ok", response.Result(response.String("ok"), nil), http.StatusOK, "ok"},
		{"result error", response.Result(response.String("ok"), handler.ErrBadRequest), http.StatusBadRequest, "Bad Request"},
		{"option some", response.Option(response.String("found"), true), http.StatusOK, "found"},
		{"option none", response.Option(response.String("found"), false), http.StatusNotFound, "Not Found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := exec(t, nil, nil, respond(tt.resp))
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantBody, rec.Body.String())
		})
	}
}

type mapRenderer map[string]*template.Template

func (m mapRenderer) Render(w io.Writer, name string, data any) error {
	tmpl, ok := m[name]
	if !ok {
		return fmt.Errorf("view %q not found", name)
	}
	return tmpl.Execute(w, data)
}

func TestRender(t *testing.T) {
	t.Parallel()

	g := handler.NewGlobals()
	g.Views = mapRenderer{
		"hello": template.Must(template.New("hello").Parse(`<h1>Hello, {{.}}</h1>`)),
	}

	t.Run("renders view", func(t *testing.T) {
		t.Parallel()

		rec := exec(t, g, nil, func(c *handler.Ctx) handler.Response {
			return response.Render(c, "hello", "<world>")
		})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
		assert.Equal(t, "<h1>Hello, &lt;world&gt;</h1>", rec.Body.String())
	})

	t.Run("missing view", func(t *testing.T) {
		t.Parallel()

		rec := exec(t, g, nil, func(c *handler.Ctx) handler.Response {
			return response.Render(c, "nope", nil)
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})

	t.Run("no renderer", func(t *testing.T) {
		t.Parallel()

		rec := exec(t, nil, nil, func(c *handler.Ctx) handler.Response {
			return response.Render(c, "hello", nil)
		})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestTemplate(t *testing.T) {
	t.Parallel()

	tmpl := template.Must(template.New("t").Parse(`{{.Name}}`))
	rec := exec(t, nil, nil, respond(response.Template(tmpl, struct{ Name string }{"maw"})))
	assert.Equal(t, "maw", rec.Body.String())

	broken := template.Must(template.New("b").Parse(`{{.Missing.Field}}`))
	rec = exec(t, nil, nil, respond(response.Template(broken, struct{}{})))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Equal(t, "Internal Server Error", rec.Body.String())
}

type ctxKey struct{}

func TestTempl(t *testing.T) {
	t.Parallel()

	component := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		user, _ := ctx.Value(ctxKey{}).(string)
		_, err := io.WriteString(w, "<b>"+user+"</b>")
		return err
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(context.WithValue(req.Context(), ctxKey{}, "alice"))

	rec := exec(t, nil, req, respond(response.Templ(component)))
	assert.Equal(t, "text/html; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, "<b>alice</b>", rec.Body.String())

	assert.Nil(t, response.Templ(nil))
}

func TestStream(t *testing.T) {
	t.Parallel()

	rec := exec(t, nil, nil, respond(response.Stream(func(w io.Writer, flush func()) error {
		for i := range 3 {
			if _, err := fmt.Fprintf(w, "chunk %d\n", i); err != nil {
				return err
			}
			flush()
		}
		return nil
	})))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, rec.Flushed)
	assert.Empty(t, rec.Header().Get("Content-Length"))
	assert.Equal(t, "chunk 0\nchunk 1\nchunk 2\n", rec.Body.String())
}

func TestStreamJSON(t *testing.T) {
	t.Parallel()

	items := make(chan map[string]int, 2)
	items <- map[string]int{"n": 1}
	items <- map[string]int{"n": 2}
	close(items)

	rec := exec(t, nil, nil, respond(response.StreamJSON[map[string]int](items)))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/x-ndjson", rec.Header().Get("Content-Type"))
	assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n", rec.Body.String())
}
