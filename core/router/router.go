package router

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrymomot/maw/core/handler"
)

// MethodAll is the chain key used for handlers registered with All.
const MethodAll = "*"

// Router is a node of the routing tree: a path segment and an ordered list of
// handlers and child routers. Builder methods mutate the router and return it
// for chaining.
type Router struct {
	path  string
	items []item
}

// item is either a handler or a child router.
type item struct {
	handler *handler.Handler
	child   *Router
}

// New creates a root router with an empty path.
func New() *Router {
	return &Router{}
}

// Group creates a router for path. It panics when the path does not start
// with "/" or ends with "/" (other than "/" itself).
func Group(path string) *Router {
	validatePath(path)
	return &Router{path: path}
}

func validatePath(path string) {
	if path == "/" {
		return
	}
	if !strings.HasPrefix(path, "/") || strings.HasSuffix(path, "/") {
		panic(fmt.Errorf("router: %w - got %q", ErrInvalidPath, path))
	}
	if _, _, err := parsePattern(path); err != nil {
		panic(fmt.Errorf("router: %w", err))
	}
}

// Path returns the router's own path segment.
func (r *Router) Path() string {
	return r.path
}

// Push appends child routers. Children see the global middleware registered
// on r before this call.
func (r *Router) Push(children ...*Router) *Router {
	for _, c := range children {
		if c == nil {
			panic(fmt.Errorf("router: %w on %q", ErrNilRouter, r.path))
		}
		r.items = append(r.items, item{child: c})
	}
	return r
}

// Use appends pre-built handlers, for example ones carrying state.
// Registering a second terminal handler for the same method panics.
func (r *Router) Use(handlers ...*handler.Handler) *Router {
	for _, h := range handlers {
		if h == nil {
			panic(fmt.Errorf("router: %w on %q", handler.ErrNilHandler, r.path))
		}
		if h.IsTerminal() {
			r.checkDuplicate(h)
		}
		r.items = append(r.items, item{handler: h})
	}
	return r
}

func (r *Router) checkDuplicate(h *handler.Handler) {
	for _, it := range r.items {
		prev := it.handler
		if prev == nil || prev.Kind() != h.Kind() || prev.Method() != h.Method() {
			continue
		}
		panic(fmt.Errorf("router: %w: handler for method %s already exists on path %q (registered at %s, previously at %s)",
			ErrDuplicateHandler, methodName(h), r.path, h.Location(), prev.Location()))
	}
}

// Handle registers a terminal handler for method.
func (r *Router) Handle(method string, fn handler.Func) *Router {
	return r.Use(handler.NewMethod(method, fn))
}

// Get registers a handler for GET requests.
func (r *Router) Get(fn handler.Func) *Router { return r.Handle(http.MethodGet, fn) }

// Post registers a handler for POST requests.
func (r *Router) Post(fn handler.Func) *Router { return r.Handle(http.MethodPost, fn) }

// Put registers a handler for PUT requests.
func (r *Router) Put(fn handler.Func) *Router { return r.Handle(http.MethodPut, fn) }

// Delete registers a handler for DELETE requests.
func (r *Router) Delete(fn handler.Func) *Router { return r.Handle(http.MethodDelete, fn) }

// Patch registers a handler for PATCH requests.
func (r *Router) Patch(fn handler.Func) *Router { return r.Handle(http.MethodPatch, fn) }

// Head registers a handler for HEAD requests.
func (r *Router) Head(fn handler.Func) *Router { return r.Handle(http.MethodHead, fn) }

// Options registers a handler for OPTIONS requests.
func (r *Router) Options(fn handler.Func) *Router { return r.Handle(http.MethodOptions, fn) }

// Connect registers a handler for CONNECT requests.
func (r *Router) Connect(fn handler.Func) *Router { return r.Handle(http.MethodConnect, fn) }

// Trace registers a handler for TRACE requests.
func (r *Router) Trace(fn handler.Func) *Router { return r.Handle(http.MethodTrace, fn) }

// All registers a handler for every method that has no handler of its own.
func (r *Router) All(fn handler.Func) *Router {
	return r.Use(handler.NewAll(fn))
}

// Route is shorthand for pushing Group(path).Handle(method, fn).
func (r *Router) Route(method, path string, fn handler.Func) *Router {
	return r.Push(Group(path).Handle(method, fn))
}

// Middleware appends global middleware, inherited by children pushed later.
func (r *Router) Middleware(fns ...handler.Func) *Router {
	for _, fn := range fns {
		r.Use(handler.NewMiddleware(fn))
	}
	return r
}

// LocalMiddleware appends middleware that applies only to handlers registered
// later on this router.
func (r *Router) LocalMiddleware(fns ...handler.Func) *Router {
	for _, fn := range fns {
		r.Use(handler.NewLocalMiddleware(fn))
	}
	return r
}

// Clone returns a deep copy of the tree. Handlers are shared.
func (r *Router) Clone() *Router {
	cp := &Router{path: r.path, items: make([]item, len(r.items))}
	for i, it := range r.items {
		if it.child != nil {
			cp.items[i] = item{child: it.child.Clone()}
			continue
		}
		cp.items[i] = it
	}
	return cp
}

func methodName(h *handler.Handler) string {
	if h.Kind() == handler.KindAll {
		return "ALL"
	}
	return h.Method()
}
