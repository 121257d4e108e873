package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/cookie"
	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/core/router"
	"github.com/dmitrymomot/maw/core/session"
	"github.com/dmitrymomot/maw/middleware"
)

const testSecret = "test-secret-key-32-characters!!!"

func newCookies(t *testing.T) *cookie.Manager {
	t.Helper()
	m, err := cookie.New([]string{testSecret})
	require.NoError(t, err)
	return m
}

func withCookies(req *http.Request, rec *httptest.ResponseRecorder) *http.Request {
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}
	return req
}

func csrfRouter(mw ...handler.Func) *router.Router {
	return router.New().
		Middleware(mw...).
		Push(router.Group("/form").
			Get(func(c *handler.Ctx) handler.Response {
				return response.String(middleware.CSRFToken(c))
			}).
			Post(okHandler))
}

func TestCSRFCookie(t *testing.T) {
	t.Parallel()

	r := csrfRouter(middleware.CSRF(middleware.CSRFConfig{Cookies: newCookies(t)}))

	rec := serve(t, r, httptest.NewRequest(http.MethodGet, "/form", nil), nil)
	token := rec.Body.String()
	require.Len(t, token, 64)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, middleware.DefaultCSRFCookie, cookies[0].Name)
	assert.Equal(t, http.SameSiteStrictMode, cookies[0].SameSite)
	assert.True(t, cookies[0].HttpOnly)

	t.Run("same token on later requests", func(t *testing.T) {
		got := serve(t, r, withCookies(httptest.NewRequest(http.MethodGet, "/form", nil), rec), nil)
		assert.Equal(t, token, got.Body.String())
		assert.Empty(t, got.Result().Cookies())
	})

	t.Run("valid header", func(t *testing.T) {
		req := withCookies(httptest.NewRequest(http.MethodPost, "/form", nil), rec)
		req.Header.Set(middleware.DefaultCSRFHeader, token)
		got := serve(t, r, req, nil)
		assert.Equal(t, http.StatusOK, got.Code)
	})

	t.Run("valid form field", func(t *testing.T) {
		form := url.Values{middleware.CSRFTokenKey: {token}}
		req := withCookies(httptest.NewRequest(http.MethodPost, "/form", strings.NewReader(form.Encode())), rec)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		got := serve(t, r, req, nil)
		assert.Equal(t, http.StatusOK, got.Code)
	})

	t.Run("wrong token", func(t *testing.T) {
		req := withCookies(httptest.NewRequest(http.MethodPost, "/form", nil), rec)
		req.Header.Set(middleware.DefaultCSRFHeader, strings.Repeat("0", 64))
		got := serve(t, r, req, nil)
		assert.Equal(t, http.StatusForbidden, got.Code)
		assert.Equal(t, "invalid csrf token", got.Body.String())
	})

	t.Run("missing token", func(t *testing.T) {
		got := serve(t, r, withCookies(httptest.NewRequest(http.MethodPost, "/form", nil), rec), nil)
		assert.Equal(t, http.StatusForbidden, got.Code)
	})

	t.Run("no cookie", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/form", nil)
		req.Header.Set(middleware.DefaultCSRFHeader, token)
		got := serve(t, r, req, nil)
		assert.Equal(t, http.StatusForbidden, got.Code)
	})
}

func TestCSRFSession(t *testing.T) {
	t.Parallel()

	sessions, err := session.NewManager(newCookies(t), session.NewMemoryStore(), session.WithSecure(false))
	require.NoError(t, err)

	r := csrfRouter(
		middleware.Session(sessions),
		middleware.CSRF(middleware.CSRFConfig{UseSession: true}),
	)

	rec := serve(t, r, httptest.NewRequest(http.MethodGet, "/form", nil), nil)
	token := rec.Body.String()
	require.Len(t, token, 64)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, session.DefaultCookieName, cookies[0].Name)

	req := withCookies(httptest.NewRequest(http.MethodPost, "/form", nil), rec)
	req.Header.Set(middleware.DefaultCSRFHeader, token)
	assert.Equal(t, http.StatusOK, serve(t, r, req, nil).Code)

	req = withCookies(httptest.NewRequest(http.MethodPost, "/form", nil), rec)
	req.Header.Set(middleware.DefaultCSRFHeader, "forged")
	assert.Equal(t, http.StatusForbidden, serve(t, r, req, nil).Code)
}

func TestCSRFSkipAndSafeMethods(t *testing.T) {
	t.Parallel()

	r := csrfRouter(middleware.CSRF(middleware.CSRFConfig{
		Cookies: newCookies(t),
		Skip:    func(c *handler.Ctx) bool { return c.Request().Header.Get("X-Webhook") != "" },
	}))

	req := httptest.NewRequest(http.MethodPost, "/form", nil)
	req.Header.Set("X-Webhook", "1")
	assert.Equal(t, http.StatusOK, serve(t, r, req, nil).Code)

	assert.Equal(t, http.StatusOK, serve(t, r, httptest.NewRequest(http.MethodHead, "/form", nil), nil).Code)
}

func TestCSRFRequiresStorage(t *testing.T) {
	t.Parallel()
	assert.PanicsWithError(t, middleware.ErrCSRFStorage.Error(), func() {
		middleware.CSRF(middleware.CSRFConfig{})
	})
}
