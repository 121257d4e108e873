// Package view renders html/template views loaded from an fs.FS.
//
// Every file matching the patterns becomes a view named after its path
// relative to the file system root. Files under the layout directory
// (default "layouts") and the partials directory (default "partials") are
// parsed into every view, so views can use {{template "base" .}} and
// {{template "partials/nav.html" .}}.
package view

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"slices"
	"strings"
	"sync"
)

var (
	ErrNoViews      = errors.New("view: no templates found")
	ErrViewNotFound = errors.New("view: not found")
)

// Engine holds the parsed views. Safe for concurrent use.
type Engine struct {
	fsys  fs.FS
	opts  options
	mu    sync.RWMutex
	views map[string]*template.Template
}

type options struct {
	extensions []string
	shared     []string
	funcs      template.FuncMap
	reload     bool
}

// Option configures an Engine.
type Option func(*options)

// WithExtensions sets the file extensions treated as templates.
// Default: ".html", ".tmpl".
func WithExtensions(exts ...string) Option {
	return func(o *options) {
		if len(exts) > 0 {
			o.extensions = exts
		}
	}
}

// WithSharedDirs sets the directories whose templates are parsed into every
// view. Default: "layouts", "partials".
func WithSharedDirs(dirs ...string) Option {
	return func(o *options) {
		o.shared = dirs
	}
}

// WithFuncs adds template functions.
func WithFuncs(funcs template.FuncMap) Option {
	return func(o *options) {
		for k, v := range funcs {
			o.funcs[k] = v
		}
	}
}

// WithReload reparses the templates on every render. Useful in development
// with os.DirFS.
func WithReload() Option {
	return func(o *options) {
		o.reload = true
	}
}

// New parses the views in fsys.
func New(fsys fs.FS, opts ...Option) (*Engine, error) {
	o := options{
		extensions: []string{".html", ".tmpl"},
		shared:     []string{"layouts", "partials"},
		funcs:      template.FuncMap{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	e := &Engine{fsys: fsys, opts: o}
	if err := e.load(); err != nil {
		return nil, err
	}
	return e, nil
}

// Must is like New but panics on error.
func Must(e *Engine, err error) *Engine {
	if err != nil {
		panic(err)
	}
	return e
}

// Render executes the named view into w.
func (e *Engine) Render(w io.Writer, name string, data any) error {
	if e.opts.reload {
		if err := e.load(); err != nil {
			return err
		}
	}

	e.mu.RLock()
	tmpl, ok := e.views[name]
	e.mu.RUnlock()
	if !ok {
		return fmt.Errorf("%w: %q", ErrViewNotFound, name)
	}
	return tmpl.ExecuteTemplate(w, name, data)
}

// Names returns the view names in sorted order.
func (e *Engine) Names() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.views))
	for name := range e.views {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (e *Engine) load() error {
	var shared, pages []string
	err := fs.WalkDir(e.fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !slices.Contains(e.opts.extensions, path.Ext(p)) {
			return nil
		}
		if e.isShared(p) {
			shared = append(shared, p)
		} else {
			pages = append(pages, p)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("view: walk templates: %w", err)
	}
	if len(pages) == 0 {
		return ErrNoViews
	}

	base := template.New("").Funcs(e.opts.funcs)
	for _, p := range shared {
		if err := parseFile(base, e.fsys, p); err != nil {
			return err
		}
	}

	views := make(map[string]*template.Template, len(pages))
	for _, p := range pages {
		t, err := base.Clone()
		if err != nil {
			return fmt.Errorf("view: clone layouts: %w", err)
		}
		if err := parseFile(t, e.fsys, p); err != nil {
			return err
		}
		views[p] = t
	}

	e.mu.Lock()
	e.views = views
	e.mu.Unlock()
	return nil
}

func (e *Engine) isShared(p string) bool {
	for _, dir := range e.opts.shared {
		if strings.HasPrefix(p, strings.TrimSuffix(dir, "/")+"/") {
			return true
		}
	}
	return false
}

func parseFile(t *template.Template, fsys fs.FS, name string) error {
	b, err := fs.ReadFile(fsys, name)
	if err != nil {
		return fmt.Errorf("view: read %s: %w", name, err)
	}
	if _, err := t.New(name).Parse(string(b)); err != nil {
		return fmt.Errorf("view: parse %s: %w", name, err)
	}
	return nil
}
