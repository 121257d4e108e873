package middleware

import (
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
)

// CORSConfig configures the CORS middleware.
type CORSConfig struct {
	// Skip defines a function to skip middleware execution for specific requests.
	Skip func(c *handler.Ctx) bool

	// AllowOrigins lists the accepted origins. Empty or "*" allows any origin.
	AllowOrigins []string

	// AllowMethods lists the methods accepted in preflight requests.
	AllowMethods []string

	// AllowHeaders lists the request headers accepted in preflight requests.
	AllowHeaders []string

	// ExposeHeaders lists response headers readable by the client.
	ExposeHeaders []string

	// AllowCredentials permits cookies. Never combined with a "*" origin.
	AllowCredentials bool

	// MaxAge caches preflight results, in seconds.
	MaxAge int

	// AllowOriginFunc decides dynamically and takes precedence over AllowOrigins.
	AllowOriginFunc func(origin string) (string, bool)
}

// CORS allows cross-origin requests from any origin.
func CORS() handler.Func {
	return CORSWithConfig(CORSConfig{})
}

// CORSWithConfig answers preflight requests itself and adds the
// Access-Control headers to every other allowed response.
func CORSWithConfig(cfg CORSConfig) handler.Func {
	if len(cfg.AllowMethods) == 0 {
		cfg.AllowMethods = []string{
			http.MethodGet,
			http.MethodHead,
			http.MethodPut,
			http.MethodPatch,
			http.MethodPost,
			http.MethodDelete,
		}
	}
	if len(cfg.AllowHeaders) == 0 {
		cfg.AllowHeaders = []string{
			"Accept",
			"Accept-Language",
			"Content-Language",
			"Content-Type",
			"Origin",
			"Authorization",
			DefaultRequestIDHeader,
			DefaultCSRFHeader,
		}
	}

	allowMethods := strings.Join(cfg.AllowMethods, ",")
	allowHeaders := strings.Join(cfg.AllowHeaders, ",")
	exposeHeaders := strings.Join(cfg.ExposeHeaders, ",")
	anyOrigin := len(cfg.AllowOrigins) == 0 || slices.Contains(cfg.AllowOrigins, "*")

	allowOrigin := func(origin string) (string, bool) {
		switch {
		case cfg.AllowOriginFunc != nil:
			return cfg.AllowOriginFunc(origin)
		case anyOrigin:
			return "*", true
		case slices.Contains(cfg.AllowOrigins, origin):
			return origin, true
		}
		return "", false
	}

	return func(c *handler.Ctx) handler.Response {
		if cfg.Skip != nil && cfg.Skip(c) {
			c.Next()
			return nil
		}

		req := c.Request()
		origin, allowed := allowOrigin(req.Header.Get("Origin"))
		headers := c.Header()

		if req.Method == http.MethodOptions && req.Header.Get("Access-Control-Request-Method") != "" {
			methodAllowed := slices.Contains(cfg.AllowMethods, req.Header.Get("Access-Control-Request-Method"))
			if !allowed || !methodAllowed {
				return response.Status(http.StatusForbidden)
			}

			headers.Set("Access-Control-Allow-Origin", origin)
			headers.Set("Access-Control-Allow-Methods", allowMethods)
			if req.Header.Get("Access-Control-Request-Headers") != "" {
				headers.Set("Access-Control-Allow-Headers", allowHeaders)
			}
			if cfg.AllowCredentials && origin != "*" {
				headers.Set("Access-Control-Allow-Credentials", "true")
			}
			if cfg.MaxAge > 0 {
				headers.Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
			}
			headers.Add("Vary", "Origin")
			headers.Add("Vary", "Access-Control-Request-Method")
			headers.Add("Vary", "Access-Control-Request-Headers")
			return response.NoContent()
		}

		if allowed {
			headers.Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials && origin != "*" {
				headers.Set("Access-Control-Allow-Credentials", "true")
			}
			if exposeHeaders != "" {
				headers.Set("Access-Control-Expose-Headers", exposeHeaders)
			}
			headers.Add("Vary", "Origin")
		}

		c.Next()
		return nil
	}
}

// AllowOriginWildcard reflects any non-empty origin, which, unlike "*",
// can be combined with credentials.
func AllowOriginWildcard() func(origin string) (string, bool) {
	return func(origin string) (string, bool) {
		return origin, origin != ""
	}
}

// AllowOriginSubdomain allows domain and all of its subdomains, on any port.
func AllowOriginSubdomain(domain string) func(origin string) (string, bool) {
	domain = strings.ToLower(strings.TrimPrefix(strings.TrimPrefix(domain, "*."), "."))
	suffix := "." + domain

	return func(origin string) (string, bool) {
		u, err := url.Parse(origin)
		if origin == "" || err != nil || u.Host == "" {
			return "", false
		}
		host := strings.ToLower(u.Hostname())
		if host == domain || strings.HasSuffix(host, suffix) {
			return origin, true
		}
		return "", false
	}
}
