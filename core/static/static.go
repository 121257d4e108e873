package static

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/dmitrymomot/maw/core/handler"
)

// Handler returns a handler serving the file named by the route parameter.
// It panics when fsys is nil.
func Handler(fsys fs.FS, opts ...Option) handler.Func {
	if fsys == nil {
		panic("static: nil file system")
	}
	cfg := newConfig(fsys, opts...)

	return func(c *handler.Ctx) handler.Response {
		name, ok := cleanName(c.Param(cfg.param))
		if !ok {
			return errorResponse(handler.ErrNotFound)
		}
		return cfg.serve(name)
	}
}

// File returns a handler that always serves the named file.
func File(fsys fs.FS, name string, opts ...Option) handler.Func {
	if fsys == nil {
		panic("static: nil file system")
	}
	cfg := newConfig(fsys, opts...)
	clean, ok := cleanName(name)
	if !ok {
		panic(fmt.Sprintf("static: invalid file name %q", name))
	}

	return func(*handler.Ctx) handler.Response {
		return cfg.serve(clean)
	}
}

// HasIndex reports whether the root of fsys, after applying opts, contains
// the index file.
func HasIndex(fsys fs.FS, opts ...Option) bool {
	cfg := newConfig(fsys, opts...)
	info, err := fs.Stat(cfg.fs, cfg.index)
	return err == nil && !info.IsDir()
}

// cleanName turns a request path into an fs.FS name. The root is ".".
func cleanName(p string) (string, bool) {
	p = strings.Trim(path.Clean("/"+p), "/")
	if p == "" {
		return ".", true
	}
	return p, fs.ValidPath(p)
}

func (cfg *config) serve(name string) handler.Response {
	f, info, err := cfg.open(name)
	if errors.Is(err, fs.ErrNotExist) && cfg.spa && path.Ext(name) == "" {
		f, info, err = cfg.open(".")
	}
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
			return errorResponse(handler.ErrNotFound)
		}
		return errorResponse(fmt.Errorf("static: open %q: %w", name, err))
	}

	return func(w http.ResponseWriter, r *http.Request) error {
		defer f.Close()

		if cfg.maxAge > 0 {
			w.Header().Set("Cache-Control", "public, max-age="+strconv.Itoa(int(cfg.maxAge/time.Second)))
		}
		if ct := contentType(info.Name()); ct != "" {
			w.Header().Set("Content-Type", ct)
		}

		if rs, ok := f.(io.ReadSeeker); ok {
			http.ServeContent(w, r, info.Name(), info.ModTime(), rs)
			return nil
		}

		w.Header().Set("Content-Length", strconv.FormatInt(info.Size(), 10))
		if !info.ModTime().IsZero() {
			w.Header().Set("Last-Modified", info.ModTime().UTC().Format(http.TimeFormat))
		}
		if r.Method == http.MethodHead {
			return nil
		}
		_, err := io.Copy(w, f)
		return err
	}
}

// open opens name, resolving directories to their index file.
func (cfg *config) open(name string) (fs.File, fs.FileInfo, error) {
	f, err := cfg.fs.Open(name)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, nil, err
	}
	if !info.IsDir() {
		return f, info, nil
	}

	_ = f.Close()
	index := path.Join(name, cfg.index)
	f, err = cfg.fs.Open(index)
	if err != nil {
		return nil, nil, err
	}
	info, err = f.Stat()
	if err != nil || info.IsDir() {
		_ = f.Close()
		return nil, nil, fs.ErrNotExist
	}
	return f, info, nil
}

func contentType(name string) string {
	return mime.TypeByExtension(path.Ext(name))
}

func errorResponse(err error) handler.Response {
	return func(http.ResponseWriter, *http.Request) error {
		return err
	}
}
