package middleware_test

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/core/router"
)

// serve dispatches req through r the way the application host does.
func serve(t *testing.T, r *router.Router, req *http.Request, g *handler.Globals) *httptest.ResponseRecorder {
	t.Helper()
	table, err := r.Build()
	require.NoError(t, err)

	entry, params, ok := table.Lookup(req.URL.Path)
	require.True(t, ok, "no entry for %s", req.URL.Path)
	chain, ok := entry.Chain(req.Method)
	require.True(t, ok, "no chain for %s %s", req.Method, req.URL.Path)

	rec := httptest.NewRecorder()
	c := handler.NewCtx(rec, req, chain, params, g)
	c.Next()
	c.Finish()
	return rec
}

func okHandler(c *handler.Ctx) handler.Response {
	return response.String("ok")
}

func bufferedGlobals() (*handler.Globals, *bytes.Buffer) {
	var buf bytes.Buffer
	g := handler.NewGlobals()
	g.Logger = slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	return g, &buf
}
