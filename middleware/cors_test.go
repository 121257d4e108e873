package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/core/router"
	"github.com/dmitrymomot/maw/middleware"
)

func corsRouter(mw handler.Func) *router.Router {
	return router.New().
		Middleware(mw).
		Push(router.Group("/api").
			Get(okHandler).
			Options(func(*handler.Ctx) handler.Response { return response.NoContent() }))
}

func preflight(origin, method string) *http.Request {
	req := httptest.NewRequest(http.MethodOptions, "/api", nil)
	req.Header.Set("Origin", origin)
	req.Header.Set("Access-Control-Request-Method", method)
	req.Header.Set("Access-Control-Request-Headers", "Content-Type")
	return req
}

func TestCORSDefault(t *testing.T) {
	t.Parallel()

	r := corsRouter(middleware.CORS())

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := serve(t, r, req, nil)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "ok", rec.Body.String())

	rec = serve(t, r, preflight("https://example.com", http.MethodPost), nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Content-Type")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSWithConfig(t *testing.T) {
	t.Parallel()

	r := corsRouter(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"https://app.example.com"},
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		ExposeHeaders:    []string{"X-Total"},
		AllowCredentials: true,
		MaxAge:           600,
	}))

	tests := []struct {
		name   string
		req    *http.Request
		status int
		origin string
	}{
		{"allowed preflight", preflight("https://app.example.com", http.MethodPost), http.StatusNoContent, "https://app.example.com"},
		{"disallowed method", preflight("https://app.example.com", http.MethodDelete), http.StatusForbidden, ""},
		{"disallowed origin", preflight("https://evil.com", http.MethodPost), http.StatusForbidden, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, r, tt.req, nil)
			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, tt.origin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}

	req := httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := serve(t, r, req, nil)
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
	assert.Equal(t, "X-Total", rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Equal(t, []string{"Origin"}, rec.Header().Values("Vary"))

	req = httptest.NewRequest(http.MethodGet, "/api", nil)
	req.Header.Set("Origin", "https://evil.com")
	rec = serve(t, r, req, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = serve(t, r, preflight("https://app.example.com", http.MethodGet), nil)
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
}

func TestAllowOriginFuncs(t *testing.T) {
	t.Parallel()

	wildcard := middleware.AllowOriginWildcard()
	origin, ok := wildcard("https://any.io")
	assert.True(t, ok)
	assert.Equal(t, "https://any.io", origin)
	_, ok = wildcard("")
	assert.False(t, ok)

	sub := middleware.AllowOriginSubdomain("*.example.com")
	tests := map[string]bool{
		"https://example.com":         true,
		"https://api.example.com":     true,
		"http://a.b.example.com:8080": true,
		"https://example.com.evil.io": false,
		"https://notexample.com":      false,
		"":                            false,
	}
	for in, want := range tests {
		_, got := sub(in)
		assert.Equal(t, want, got, in)
	}
}
