package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrymomot/maw/core/handler"
	"github.com/dmitrymomot/maw/core/router"
	"github.com/dmitrymomot/maw/core/server"
)

// DefaultShutdownTimeout is how long in-flight requests may drain on shutdown.
const DefaultShutdownTimeout = 10 * time.Second

// App dispatches requests to the chains of a built router.
// It implements http.Handler and is safe for concurrent use once built.
type App struct {
	buildMu sync.Mutex
	table   atomic.Pointer[router.Table]

	router          *router.Router
	globals         *handler.Globals
	logger          *slog.Logger
	caseInsensitive bool
	shutdownTimeout time.Duration
	serverOpts      []server.Option
	workers         []func(ctx context.Context) error
}

// New creates an application. Without WithRouter it serves an empty router
// that answers 404 to everything.
func New(opts ...Option) *App {
	a := &App{
		router:          router.New(),
		globals:         handler.NewGlobals(),
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the root router for registering routes before Build.
func (a *App) Router() *router.Router {
	return a.router
}

// Locals returns the application-wide locals.
func (a *App) Locals() *handler.Locals {
	return a.globals.Locals
}

// Build flattens the router into the dispatch table. Route conflicts are
// returned; duplicate handlers panic. Routes registered after Build are not
// served until Build runs again.
func (a *App) Build() error {
	a.buildMu.Lock()
	defer a.buildMu.Unlock()

	t, err := a.router.Build(router.WithLogger(a.logger))
	if err != nil {
		return err
	}
	a.table.Store(t)
	a.logger.Debug("router built", "routes", len(t.Entries()))
	return nil
}

// Routes lists the served method and path pairs, building the table first
// when needed.
func (a *App) Routes() ([]router.Route, error) {
	t, err := a.ensureTable()
	if err != nil {
		return nil, err
	}
	return t.Routes(), nil
}

func (a *App) ensureTable() (*router.Table, error) {
	if t := a.table.Load(); t != nil {
		return t, nil
	}
	if err := a.Build(); err != nil {
		return nil, err
	}
	return a.table.Load(), nil
}

// ServeHTTP implements http.Handler.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t, err := a.ensureTable()
	if err != nil {
		a.logger.ErrorContext(r.Context(), "router build failed", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	entry, params, ok := t.Lookup(normalizePath(requestPath(r), a.caseInsensitive))
	if !ok {
		a.reject(w, r, handler.ErrNotFound, nil)
		return
	}

	chain, ok := entry.Chain(r.Method)
	if !ok {
		a.reject(w, r, handler.ErrMethodNotAllowed, entry.Methods())
		return
	}

	c := handler.NewCtx(w, r, chain, params, a.globals)
	c.Next()
	c.Finish()
}

// reject answers a request no chain accepts through the error handler.
func (a *App) reject(w http.ResponseWriter, r *http.Request, err error, allow []string) {
	c := handler.NewCtx(w, r, nil, nil, a.globals)
	if len(allow) > 0 {
		c.Header().Set("Allow", strings.Join(allow, ", "))
	}
	c.HandleError(err)
	c.Finish()
}

// Listen builds the router, listens on addr and serves until ctx is done.
func (a *App) Listen(ctx context.Context, addr string) error {
	if err := a.Build(); err != nil {
		return err
	}

	var lc net.ListenConfig
	ln, err := lc.Listen(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("app: listen on %s: %w", addr, err)
	}
	return a.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done or a worker fails, then
// drains in-flight requests for at most the shutdown timeout. It returns nil
// after a clean shutdown and server.ErrShutdownTimeout when connections had
// to be closed.
func (a *App) Serve(ctx context.Context, ln net.Listener) error {
	if _, err := a.ensureTable(); err != nil {
		_ = ln.Close()
		return err
	}

	// Outlives request cancellation so upgraded connections keep running
	// until the server has drained.
	base, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()
	a.globals.BaseContext = base

	opts := append([]server.Option{
		server.WithLogger(a.logger),
		server.WithShutdownTimeout(a.shutdownTimeout),
	}, a.serverOpts...)
	srv := server.New(ln.Addr().String(), opts...)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Serve(gctx, ln, a)
	})
	for _, work := range a.workers {
		g.Go(func() error {
			return work(gctx)
		})
	}

	err := g.Wait()
	a.logger.Info("application stopped")
	return err
}

// Run listens on addr until the process receives SIGINT or SIGTERM.
func (a *App) Run(addr string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return a.Listen(ctx, addr)
}
