package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/response"
	"github.com/dmitrymomot/maw/core/router"
	"github.com/dmitrymomot/maw/middleware"
)

func echoBody(c *handler.Ctx) handler.Response {
	b, err := c.Body()
	if err != nil {
		return response.Error(err)
	}
	return response.Bytes(b, "text/plain")
}

func TestBodyLimit(t *testing.T) {
	t.Parallel()

	r := router.New().Push(
		router.Group("/small").Middleware(middleware.BodyLimit(4)).Post(echoBody),
		router.Group("/default").Post(echoBody),
	)

	tests := []struct {
		name   string
		path   string
		body   string
		status int
	}{
		{"within limit", "/small", "abcd", http.StatusOK},
		{"declared length too large", "/small", "abcde", http.StatusRequestEntityTooLarge},
		{"other routes keep app limit", "/default", "abcdefgh", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			req := httptest.NewRequest(http.MethodPost, tt.path, strings.NewReader(tt.body))
			rec := serve(t, r, req, nil)
			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestBodyLimitUnknownLength(t *testing.T) {
	t.Parallel()

	r := router.New().Push(router.Group("/up").Middleware(middleware.BodyLimit(4)).Post(echoBody))

	req := httptest.NewRequest(http.MethodPost, "/up", strings.NewReader("too long body"))
	req.ContentLength = -1
	rec := serve(t, r, req, nil)
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBodyLimitSkipAndDisable(t *testing.T) {
	t.Parallel()

	r := router.New().Push(
		router.Group("/skip").
			Middleware(middleware.BodyLimitWithConfig(middleware.BodyLimitConfig{
				MaxSize: 1,
				Skip:    func(*handler.Ctx) bool { return true },
			})).
			Post(echoBody),
		router.Group("/off").Middleware(middleware.BodyLimit(-1)).Post(echoBody),
	)

	for _, path := range []string{"/skip", "/off"} {
		req := httptest.NewRequest(http.MethodPost, path, strings.NewReader("payload"))
		rec := serve(t, r, req, nil)
		assert.Equal(t, "payload", rec.Body.String(), path)
	}
}
