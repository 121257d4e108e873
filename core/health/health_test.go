package health_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/health"
)

func run(t *testing.T, fn handler.Func) *httptest.ResponseRecorder {
	t.Helper()
	h := handler.NewMethod(http.MethodGet, fn)
	rec := httptest.NewRecorder()
	c := handler.NewCtx(rec, httptest.NewRequest(http.MethodGet, "/", nil), []*handler.Handler{h}, nil, nil)
	c.Next()
	c.Finish()
	return rec
}

func TestLiveness(t *testing.T) {
	t.Parallel()
	rec := run(t, health.Liveness)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ALIVE", rec.Body.String())

	rec = run(t, health.NoContent)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestReadiness(t *testing.T) {
	t.Parallel()

	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	tests := []struct {
		name   string
		checks []func(context.Context) error
		code   int
		body   string
	}{
		{"no checks", nil, http.StatusOK, "READY"},
		{"all pass", []func(context.Context) error{ok, ok}, http.StatusOK, "READY"},
		{"one fails", []func(context.Context) error{ok, down}, http.StatusServiceUnavailable, "Service Unavailable"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := run(t, health.Readiness(tt.checks...))
			assert.Equal(t, tt.code, rec.Code)
			assert.Equal(t, tt.body, rec.Body.String())
		})
	}
}

func TestReadinessStopsAtFirstFailure(t *testing.T) {
	t.Parallel()

	calls := 0
	check := func(err error) func(context.Context) error {
		return func(context.Context) error {
			calls++
			return err
		}
	}
	rec := run(t, health.Readiness(check(errors.New("down")), check(nil)))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, 1, calls)
}
