package router

import (
	"fmt"
	"io"
	"log/slog"

	"github.com/dmitrymomot/maw/core/handler"
)

// Table is the immutable dispatch table built from a router tree.
// Safe for concurrent use.
type Table struct {
	tree    *Tree[*Entry]
	entries []*Entry
}

// BuildOption configures Build.
type BuildOption func(*buildOptions)

type buildOptions struct {
	logger *slog.Logger
}

// WithLogger sets the logger receiving build warnings.
func WithLogger(logger *slog.Logger) BuildOption {
	return func(o *buildOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Build flattens the tree and loads it into a trie. Malformed or equivalent
// patterns are returned as errors; duplicate handlers panic. The router is not
// modified, so building the same router again yields an equivalent table.
func (r *Router) Build(opts ...BuildOption) (*Table, error) {
	o := &buildOptions{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(o)
	}

	f := r.flatten()
	entries := f.entries

	for _, w := range f.warnings {
		o.logger.Warn(w)
	}

	t := &Table{tree: NewTree[*Entry](), entries: entries}
	for _, e := range entries {
		if err := t.tree.Insert(e.Path, e); err != nil {
			return nil, fmt.Errorf("router: build: %w", err)
		}
	}
	return t, nil
}

// Lookup returns the entry matching path and the captured parameters.
func (t *Table) Lookup(path string) (*Entry, handler.Params, bool) {
	return t.tree.Match(path)
}

// Entries returns the flattened entries in registration order.
func (t *Table) Entries() []*Entry {
	return t.entries
}

// Route describes one registered method handler.
type Route struct {
	Method   string
	Path     string
	Location string
}

// Routes lists every method handler, ALL handlers with MethodAll, in
// registration order of their paths.
func (t *Table) Routes() []Route {
	var routes []Route
	for _, e := range t.entries {
		for _, m := range e.Methods() {
			chain, _ := e.Chain(m)
			routes = append(routes, Route{Method: m, Path: e.Path, Location: chain[len(chain)-1].Location()})
		}
		if e.All != nil {
			routes = append(routes, Route{Method: MethodAll, Path: e.Path, Location: e.All[len(e.All)-1].Location()})
		}
	}
	return routes
}
