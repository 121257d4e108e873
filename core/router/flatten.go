package router

import (
	"fmt"
	"net/http"
	"slices"
	"sort"

	"github.com/dmitrymomot/maw/core/handler"
)

// Entry is one flattened route: a full path and its handler chains.
// Every chain ends with exactly one terminal handler.
type Entry struct {
	Path string
	// Chains maps an HTTP method to its chain.
	Chains map[string][]*handler.Handler
	// All is the chain used for methods without their own chain, if any.
	All []*handler.Handler
	// HeadFromGet is set when HEAD requests are served by the GET chain.
	HeadFromGet bool
}

// Chain returns the chain serving method: its own chain, the GET chain for
// HEAD when aliased, or the ALL chain.
func (e *Entry) Chain(method string) ([]*handler.Handler, bool) {
	if chain, ok := e.Chains[method]; ok {
		return chain, true
	}
	if method == http.MethodHead && e.HeadFromGet {
		return e.Chains[http.MethodGet], true
	}
	if e.All != nil {
		return e.All, true
	}
	return nil, false
}

// Methods returns the methods with a chain, including an aliased HEAD,
// sorted alphabetically.
func (e *Entry) Methods() []string {
	methods := make([]string, 0, len(e.Chains)+1)
	for m := range e.Chains {
		methods = append(methods, m)
	}
	if e.HeadFromGet {
		methods = append(methods, http.MethodHead)
	}
	sort.Strings(methods)
	return methods
}

// Flatten walks the tree depth-first and returns one entry per distinct full
// path, in order of first registration. It panics when two branches register
// a handler for the same method on the same full path.
func (r *Router) Flatten() []*Entry {
	return r.flatten().entries
}

func (r *Router) flatten() *flattener {
	f := &flattener{byPath: make(map[string]*Entry)}
	f.walk("", r, nil)
	f.aliasHead()
	return f
}

type flattener struct {
	entries  []*Entry
	byPath   map[string]*Entry
	warnings []string
}

// walk visits r's items in registration order. Global middleware extends the
// inherited list for everything after it; local middleware extends the list
// used by this router's own handlers only.
func (f *flattener) walk(base string, r *Router, inherited []*handler.Handler) {
	path := joinPaths(base, r.path)
	globals := slices.Clip(inherited)
	var locals []*handler.Handler
	terminals := 0

	for _, it := range r.items {
		if it.child != nil {
			f.walk(path, it.child, globals)
			continue
		}

		h := it.handler
		switch h.Kind() {
		case handler.KindMiddleware:
			globals = append(slices.Clip(globals), h)
		case handler.KindLocalMiddleware:
			locals = append(slices.Clip(locals), h)
		case handler.KindMethod, handler.KindAll:
			chain := make([]*handler.Handler, 0, len(globals)+len(locals)+1)
			chain = append(chain, globals...)
			chain = append(chain, locals...)
			chain = append(chain, h)
			f.add(path, h, chain)
			terminals++
		}
	}

	if terminals == 0 && len(locals) > 0 {
		f.warnings = append(f.warnings, fmt.Sprintf("route %s has local middleware but no handlers", path))
	}
}

func (f *flattener) add(path string, h *handler.Handler, chain []*handler.Handler) {
	e, ok := f.byPath[path]
	if !ok {
		e = &Entry{Path: path, Chains: make(map[string][]*handler.Handler)}
		f.byPath[path] = e
		f.entries = append(f.entries, e)
	}

	if h.Kind() == handler.KindAll {
		if e.All != nil {
			panicDuplicate(path, h, e.All[len(e.All)-1])
		}
		e.All = chain
		return
	}

	if prev, exists := e.Chains[h.Method()]; exists {
		panicDuplicate(path, h, prev[len(prev)-1])
	}
	e.Chains[h.Method()] = chain
}

// aliasHead marks every entry with a GET chain and no HEAD chain so HEAD
// requests are served by the GET chain.
func (f *flattener) aliasHead() {
	for _, e := range f.entries {
		_, hasGet := e.Chains[http.MethodGet]
		_, hasHead := e.Chains[http.MethodHead]
		e.HeadFromGet = hasGet && !hasHead
	}
}

func panicDuplicate(path string, h, prev *handler.Handler) {
	panic(fmt.Errorf("router: %w: handler for method %s already exists on path %q (registered at %s, previously at %s)",
		ErrDuplicateHandler, methodName(h), path, h.Location(), prev.Location()))
}

// joinPaths concatenates a parent and child path. Empty paths are identity
// elements, a parent of "/" acts as empty, and two empty paths give "/".
func joinPaths(parent, child string) string {
	switch {
	case parent == "" && child == "":
		return "/"
	case parent == "":
		return child
	case child == "":
		return parent
	case parent == "/":
		return child
	default:
		return parent + child
	}
}
