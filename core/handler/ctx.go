package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"
)

// DefaultBodyLimit is the request body limit used when none is configured.
const DefaultBodyLimit int64 = 4 << 20

// Renderer renders a named template. Implemented by core/view.
type Renderer interface {
	Render(w io.Writer, name string, data any) error
}

// Globals is the application-wide state shared by every request context.
// It must not be modified once requests are being served.
type Globals struct {
	Locals       *Locals
	Views        Renderer
	Logger       *slog.Logger
	ErrorHandler ErrorHandler
	ProxyHeader  string
	BodyLimit    int64
	// BaseContext lives as long as the application. Work that outlives a
	// request, such as a websocket connection, derives from it.
	BaseContext context.Context
}

// NewGlobals returns Globals with empty locals, a no-op logger, the default
// error handler and the default body limit.
func NewGlobals() *Globals {
	return &Globals{
		Locals:       NewLocals(),
		Logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		ErrorHandler: DefaultErrorHandler,
		BodyLimit:    DefaultBodyLimit,
		BaseContext:  context.Background(),
	}
}

// Ctx is the per-request execution state: the request, the buffered response,
// the resolved handler chain and a cursor into it.
// A Ctx belongs to a single request goroutine and must not be shared.
type Ctx struct {
	req     *http.Request
	w       *responseWriter
	chain   []*Handler
	cursor  int
	closed  bool
	current *Handler
	params  Params
	locals  map[any]any
	globals *Globals

	query     url.Values
	body      []byte
	bodyRead  bool
	bodyLimit int64
}

// NewCtx creates a context for one request. A nil g uses NewGlobals defaults.
func NewCtx(w http.ResponseWriter, r *http.Request, chain []*Handler, params Params, g *Globals) *Ctx {
	if g == nil {
		g = NewGlobals()
	}
	c := &Ctx{
		req:       r,
		chain:     chain,
		params:    params,
		globals:   g,
		bodyLimit: g.BodyLimit,
	}
	c.w = newResponseWriter(w, r.Method == http.MethodHead, c.Close)
	return c
}

// Next runs the next handler in the chain and returns once it has finished.
// It is a no-op when the chain is exhausted or the context is closed.
// A terminal handler starts with status 200 unless an earlier handler set one.
func (c *Ctx) Next() {
	if c.closed || c.cursor >= len(c.chain) {
		return
	}
	h := c.chain[c.cursor]
	c.cursor++

	if h.IsTerminal() && c.w.status == 0 {
		c.w.status = http.StatusOK
	}
	h.Run(c)
}

// Close abandons the request: no further handler runs and nothing is written
// when the chain unwinds. Used after protocol upgrades.
func (c *Ctx) Close() {
	c.closed = true
}

// Closed reports whether the context was closed.
func (c *Ctx) Closed() bool {
	return c.closed
}

// Chain returns the resolved handler chain.
func (c *Ctx) Chain() []*Handler {
	return c.chain
}

// Cursor returns the index of the next handler to run.
func (c *Ctx) Cursor() int {
	return c.cursor
}

// Finish sends the buffered response unless the context was closed or the
// response was already committed. HEAD responses are sent without a body.
func (c *Ctx) Finish() {
	if c.closed {
		return
	}
	c.w.finish()
}

// Deadline delegates to the request context.
func (c *Ctx) Deadline() (time.Time, bool) {
	return c.req.Context().Deadline()
}

// Done delegates to the request context.
func (c *Ctx) Done() <-chan struct{} {
	return c.req.Context().Done()
}

// Err delegates to the request context.
func (c *Ctx) Err() error {
	return c.req.Context().Err()
}

// Value returns a per-request value set with SetValue, falling back to the
// request context.
func (c *Ctx) Value(key any) any {
	if v, ok := c.locals[key]; ok {
		return v
	}
	return c.req.Context().Value(key)
}

// SetValue stores a per-request value visible to later handlers in the chain.
func (c *Ctx) SetValue(key, val any) {
	if c.locals == nil {
		c.locals = make(map[any]any)
	}
	c.locals[key] = val
}

// Request returns the inbound request.
func (c *Ctx) Request() *http.Request {
	return c.req
}

// SetRequest replaces the inbound request, e.g. to attach a derived context.
func (c *Ctx) SetRequest(r *http.Request) {
	c.req = r
	c.query = nil
}

// ResponseWriter returns the buffered response writer.
func (c *Ctx) ResponseWriter() http.ResponseWriter {
	return c.w
}

// Header returns the response headers.
func (c *Ctx) Header() http.Header {
	return c.w.Header()
}

// SetStatus sets the response status code.
func (c *Ctx) SetStatus(status int) {
	c.w.WriteHeader(status)
}

// Status returns the response status code, or 0 if none was set yet.
func (c *Ctx) Status() int {
	return c.w.status
}

// ResponseBody returns the buffered response body.
func (c *Ctx) ResponseBody() []byte {
	return c.w.body.Bytes()
}

// ResetBody discards the buffered response body.
func (c *Ctx) ResetBody() {
	c.w.body.Reset()
}

// Written reports whether the response was committed or the connection hijacked.
func (c *Ctx) Written() bool {
	return c.w.Written()
}

// HandleError passes err to the application error handler.
func (c *Ctx) HandleError(err error) {
	if c.globals.ErrorHandler != nil {
		c.globals.ErrorHandler(c, err)
		return
	}
	DefaultErrorHandler(c, err)
}

// Logger returns the application logger.
func (c *Ctx) Logger() *slog.Logger {
	if c.globals.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.globals.Logger
}

// Views returns the application template renderer, or nil.
func (c *Ctx) Views() Renderer {
	return c.globals.Views
}

// App returns the application-wide locals.
func (c *Ctx) App() *Locals {
	if c.globals.Locals == nil {
		return NewLocals()
	}
	return c.globals.Locals
}

// BaseContext returns the application lifetime context.
func (c *Ctx) BaseContext() context.Context {
	if c.globals.BaseContext == nil {
		return context.Background()
	}
	return c.globals.BaseContext
}
