package handler

import (
	"fmt"
	"net/http"
	"strings"
)

// Response renders the output of a handler onto the response writer.
// A nil Response leaves the response untouched.
type Response func(w http.ResponseWriter, r *http.Request) error

// Func is the calling convention for middleware and terminal handlers alike.
type Func func(c *Ctx) Response

// ErrorHandler handles errors returned while rendering a Response.
type ErrorHandler func(c *Ctx, err error)

// Kind is the role a Handler plays in a chain.
type Kind uint8

const (
	// KindMethod is a terminal handler bound to one HTTP method.
	KindMethod Kind = iota + 1
	// KindAll is a terminal handler used when no method handler matches.
	KindAll
	// KindMiddleware is middleware inherited by descendant routers.
	KindMiddleware
	// KindLocalMiddleware is middleware applied only to handlers of its own router.
	KindLocalMiddleware
)

func (k Kind) String() string {
	switch k {
	case KindMethod:
		return "method"
	case KindAll:
		return "all"
	case KindMiddleware:
		return "middleware"
	case KindLocalMiddleware:
		return "local middleware"
	default:
		return "unknown"
	}
}

// Handler binds a Func to its role in a chain.
// Handlers are immutable once created and may be shared by any number of
// routers and dispatch tables.
type Handler struct {
	fn       Func
	kind     Kind
	method   string
	state    any
	location string
}

// NewMethod creates a terminal handler for the given HTTP method.
func NewMethod(method string, fn Func) *Handler {
	method = strings.ToUpper(strings.TrimSpace(method))
	if method == "" {
		panic(fmt.Errorf("%w: empty method", ErrInvalidMethod))
	}
	return newHandler(KindMethod, method, fn)
}

// NewAll creates a terminal handler that serves any method without its own handler.
func NewAll(fn Func) *Handler {
	return newHandler(KindAll, "", fn)
}

// NewMiddleware creates middleware inherited by descendant routers.
func NewMiddleware(fn Func) *Handler {
	return newHandler(KindMiddleware, "", fn)
}

// NewLocalMiddleware creates middleware that applies only to the handlers
// registered on the same router.
func NewLocalMiddleware(fn Func) *Handler {
	return newHandler(KindLocalMiddleware, "", fn)
}

func newHandler(kind Kind, method string, fn Func) *Handler {
	if fn == nil {
		panic(ErrNilHandler)
	}
	return &Handler{
		fn:       fn,
		kind:     kind,
		method:   method,
		location: callerLocation(),
	}
}

// WithState returns a copy of the handler carrying state.
// The state is read inside the handler with State or MustState.
func (h *Handler) WithState(state any) *Handler {
	cp := *h
	cp.state = state
	return &cp
}

// Kind returns the handler role.
func (h *Handler) Kind() Kind { return h.kind }

// Method returns the HTTP method of a method handler, or an empty string.
func (h *Handler) Method() string { return h.method }

// Location returns the file:line where the handler was registered.
func (h *Handler) Location() string { return h.location }

// IsMiddleware reports whether the handler is global or local middleware.
func (h *Handler) IsMiddleware() bool {
	return h.kind == KindMiddleware || h.kind == KindLocalMiddleware
}

// IsTerminal reports whether the handler ends a chain.
func (h *Handler) IsTerminal() bool {
	return h.kind == KindMethod || h.kind == KindAll
}

func (h *Handler) String() string {
	var b strings.Builder
	b.WriteString(h.kind.String())
	if h.method != "" {
		b.WriteString("(" + h.method + ")")
	}
	if h.location != "" {
		b.WriteString(" at " + h.location)
	}
	return b.String()
}

// Run invokes the handler and applies its Response to the context.
// Render errors are passed to the context's error handler.
func (h *Handler) Run(c *Ctx) {
	prev := c.current
	c.current = h
	defer func() { c.current = prev }()

	resp := h.fn(c)
	if resp == nil || c.closed {
		return
	}
	if err := resp(c.w, c.req); err != nil {
		c.HandleError(err)
	}
}
