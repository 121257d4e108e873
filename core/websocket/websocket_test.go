package websocket_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/websocket"
)

// newServer serves fn as the only handler, with g as the shared state.
func newServer(t *testing.T, g *handler.Globals, fn handler.Func) *httptest.Server {
	t.Helper()
	chain := []*handler.Handler{handler.NewMethod(http.MethodGet, fn)}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := handler.NewCtx(w, r, chain, nil, g)
		c.Next()
		c.Finish()
	}))
	t.Cleanup(srv.Close)
	return srv
}

func wsURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func echo(ctx context.Context, conn *gorilla.Conn) error {
	for {
		mt, msg, err := conn.ReadMessage()
		if err != nil {
			return nil
		}
		if err := conn.WriteMessage(mt, msg); err != nil {
			return err
		}
	}
}

func TestHandlerEcho(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil, websocket.Handler(echo))

	conn, resp, err := gorilla.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	require.NoError(t, conn.WriteMessage(gorilla.TextMessage, []byte("ping")))
	_, msg, err := conn.ReadMessage()
	require.NoError(t, err)
	assert.Equal(t, "ping", string(msg))
}

func TestHandlerRejectsPlainRequest(t *testing.T) {
	t.Parallel()

	srv := newServer(t, nil, websocket.Handler(echo))

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestHandlerClosesContext(t *testing.T) {
	t.Parallel()

	closed := make(chan bool, 1)
	after := func(c *handler.Ctx) handler.Response {
		c.Next()
		closed <- c.Closed()
		return nil
	}
	chain := []*handler.Handler{
		handler.NewMiddleware(after),
		handler.NewMethod(http.MethodGet, websocket.Handler(echo)),
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := handler.NewCtx(w, r, chain, nil, nil)
		c.Next()
		c.Finish()
	}))
	defer srv.Close()

	conn, _, err := gorilla.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	select {
	case v := <-closed:
		assert.True(t, v)
	case <-time.After(5 * time.Second):
		t.Fatal("middleware did not observe the upgrade")
	}
}

func TestHandlerCancelledWithApplication(t *testing.T) {
	t.Parallel()

	base, stop := context.WithCancel(context.Background())
	g := handler.NewGlobals()
	g.BaseContext = base

	done := make(chan error, 1)
	srv := newServer(t, g, websocket.Handler(func(ctx context.Context, conn *gorilla.Conn) error {
		<-ctx.Done()
		done <- ctx.Err()
		return nil
	}))

	conn, _, err := gorilla.DefaultDialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()

	stop()
	select {
	case err := <-done:
		assert.True(t, errors.Is(err, context.Canceled))
	case <-time.After(5 * time.Second):
		t.Fatal("connection context was not cancelled")
	}
}

func TestHandlerErrorCallback(t *testing.T) {
	t.Parallel()

	errBoom := errors.New("boom")
	got := make(chan error, 1)
	srv := newServer(t, nil, websocket.Handler(
		func(context.Context, *gorilla.Conn) error { return errBoom },
		websocket.WithErrorHandler(func(_ context.Context, err error) { got <- err }),
		websocket.WithSubprotocols("chat"),
	))

	dialer := gorilla.Dialer{Subprotocols: []string{"chat"}}
	conn, _, err := dialer.Dial(wsURL(srv), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, "chat", conn.Subprotocol())

	select {
	case err := <-got:
		assert.ErrorIs(t, err, errBoom)
	case <-time.After(5 * time.Second):
		t.Fatal("error handler not called")
	}
}

func TestIsWebSocket(t *testing.T) {
	t.Parallel()

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.False(t, websocket.IsWebSocket(req))

	req.Header.Set("Connection", "Upgrade")
	req.Header.Set("Upgrade", "websocket")
	assert.True(t, websocket.IsWebSocket(req))
}

func TestHandlerNilPanics(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { websocket.Handler(nil) })
}
