package view_test

import (
	"bytes"
	"html/template"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/view"
)

var templates = fstest.MapFS{
	"layouts/base.html": {Data: []byte(`{{define "base"}}<main>{{block "content" .}}{{end}}</main>{{end}}`)},
	"partials/nav.html": {Data: []byte(`<nav>{{.}}</nav>`)},
	"index.html":        {Data: []byte(`{{template "base" .}}{{define "content"}}Hello, {{.Name}}{{end}}`)},
	"about.html":        {Data: []byte(`{{template "base" .}}{{define "content"}}About{{end}}`)},
	"users/show.html":   {Data: []byte(`{{template "partials/nav.html" "users"}}{{upper .Name}}`)},
	"assets/style.css":  {Data: []byte(`body{}`)},
}

func render(t *testing.T, e *view.Engine, name string, data any) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, e.Render(&buf, name, data))
	return buf.String()
}

func TestEngine(t *testing.T) {
	t.Parallel()

	e, err := view.New(templates, view.WithFuncs(template.FuncMap{"upper": strings.ToUpper}))
	require.NoError(t, err)

	assert.Equal(t, []string{"about.html", "index.html", "users/show.html"}, e.Names())

	data := struct{ Name string }{"<Bob>"}
	assert.Equal(t, "<main>Hello, &lt;Bob&gt;</main>", render(t, e, "index.html", data))
	assert.Equal(t, "<main>About</main>", render(t, e, "about.html", nil))
	assert.Equal(t, "<nav>users</nav>&lt;BOB&gt;", render(t, e, "users/show.html", data))
}

func TestEngineErrors(t *testing.T) {
	t.Parallel()

	e, err := view.New(templates, view.WithFuncs(template.FuncMap{"upper": strings.ToUpper}))
	require.NoError(t, err)

	err = e.Render(&bytes.Buffer{}, "missing.html", nil)
	assert.ErrorIs(t, err, view.ErrViewNotFound)

	_, err = view.New(fstest.MapFS{"a.css": {Data: []byte("x")}})
	assert.ErrorIs(t, err, view.ErrNoViews)

	_, err = view.New(fstest.MapFS{"bad.html": {Data: []byte("{{")}})
	assert.Error(t, err)

	assert.Panics(t, func() { view.Must(view.New(fstest.MapFS{})) })
}

func TestEngineReload(t *testing.T) {
	t.Parallel()

	fsys := fstest.MapFS{"page.tmpl": {Data: []byte("v1")}}
	e, err := view.New(fsys, view.WithReload())
	require.NoError(t, err)
	assert.Equal(t, "v1", render(t, e, "page.tmpl", nil))

	fsys["page.tmpl"] = &fstest.MapFile{Data: []byte("v2")}
	assert.Equal(t, "v2", render(t, e, "page.tmpl", nil))
}
