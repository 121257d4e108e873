package middleware

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"mime"
	"net/http"

	"github.com/dmitrymomot/maw/core/cookie"
	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/core/session"
)

const (
	// CSRFTokenKey is the key of the token in request locals and in the session.
	CSRFTokenKey = "csrf_token"
	// DefaultCSRFHeader is the request header carrying the token.
	DefaultCSRFHeader = "X-CSRF-Token"
	// DefaultCSRFCookie is the name of the signed token cookie.
	DefaultCSRFCookie = "maw.csrf"

	csrfTokenBytes = 32
)

// ErrCSRFStorage is raised when CSRF has no place to keep its token.
var ErrCSRFStorage = errors.New("csrf: either Cookies or UseSession is required")

var errInvalidCSRF = handler.ErrForbidden.WithBrief("invalid csrf token")

// CSRFConfig configures the CSRF middleware.
type CSRFConfig struct {
	// Skip excludes requests from verification, e.g. webhooks.
	Skip func(c *handler.Ctx) bool

	// Cookies stores the token in a signed, SameSite=Strict cookie.
	Cookies *cookie.Manager

	// UseSession stores the token in the session instead of a cookie.
	// The Session middleware must run earlier in the chain.
	UseSession bool

	// HeaderName (default: "X-CSRF-Token").
	HeaderName string

	// FormField is checked when the header is absent (default: "csrf_token").
	FormField string

	// CookieName (default: "maw.csrf").
	CookieName string

	// Secure marks the token cookie Secure.
	Secure bool
}

// CSRF verifies a per-client token on unsafe methods and answers 403 on
// mismatch. Safe methods receive the token through CSRFToken for rendering
// into forms or meta tags.
func CSRF(cfg CSRFConfig) handler.Func {
	if cfg.Cookies == nil && !cfg.UseSession {
		panic(ErrCSRFStorage)
	}
	if cfg.HeaderName == "" {
		cfg.HeaderName = DefaultCSRFHeader
	}
	if cfg.FormField == "" {
		cfg.FormField = CSRFTokenKey
	}
	if cfg.CookieName == "" {
		cfg.CookieName = DefaultCSRFCookie
	}

	load := func(c *handler.Ctx) string {
		if cfg.UseSession {
			token, _ := session.Get[string](session.From(c), CSRFTokenKey)
			return token
		}
		token, _ := cfg.Cookies.Get(c.Request(), cfg.CookieName, cookie.Signed)
		return token
	}

	store := func(c *handler.Ctx, token string) error {
		if cfg.UseSession {
			return session.From(c).Set(CSRFTokenKey, token)
		}
		return cfg.Cookies.Set(c.ResponseWriter(), cfg.CookieName, token, cookie.Signed,
			cookie.WithPath("/"),
			cookie.WithHTTPOnly(true),
			cookie.WithSecure(cfg.Secure),
			cookie.WithSameSite(http.SameSiteStrictMode),
		)
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		token := load(c)
		if token == "" {
			var err error
			if token, err = newCSRFToken(); err != nil {
				return response.Error(err)
			}
			if err := store(c, token); err != nil {
				return response.Error(err)
			}
		}
		c.SetValue(CSRFTokenKey, token)

		if !isSafeMethod(c.Method()) {
			sent := c.Request().Header.Get(cfg.HeaderName)
			if sent == "" && isForm(c.Request()) {
				sent = c.Request().PostFormValue(cfg.FormField)
			}
			if sent == "" || subtle.ConstantTimeCompare([]byte(sent), []byte(token)) != 1 {
				return response.Error(errInvalidCSRF)
			}
		}

		c.Next()
		return nil
	}
}

// CSRFToken returns the token issued for this request by CSRF.
func CSRFToken(c *handler.Ctx) string {
	token, _ := handler.Local[string](c, CSRFTokenKey)
	return token
}

func newCSRFToken() (string, error) {
	b := make([]byte, csrfTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func isForm(r *http.Request) bool {
	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return mt == "application/x-www-form-urlencoded" || mt == "multipart/form-data"
}
