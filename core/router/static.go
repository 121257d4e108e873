package router

import (
	"io/fs"

	"github.com/dmitrymomot/maw/core/static"
	"github.com/dmitrymomot/maw/core/websocket"
)

// StaticFiles serves fsys under prefix: GET {prefix}/{*path} for files, plus
// GET {prefix} when the file system root has an index file.
func (r *Router) StaticFiles(prefix string, fsys fs.FS, opts ...static.Option) *Router {
	if prefix == "" {
		prefix = "/"
	}
	opts = append(opts[:len(opts):len(opts)], static.WithParam(static.DefaultParam))
	serve := static.Handler(fsys, opts...)

	group := Group(prefix)
	if static.HasIndex(fsys, opts...) {
		group.Get(serve)
	}
	group.Push(Group("/{*" + static.DefaultParam + "}").Get(serve))
	return r.Push(group)
}

// WebSocket registers a GET handler on path that upgrades the connection and
// runs fn on it.
func (r *Router) WebSocket(path string, fn websocket.Func, opts ...websocket.Option) *Router {
	return r.Push(Group(path).Get(websocket.Handler(fn, opts...)))
}
