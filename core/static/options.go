package static

import (
	"io/fs"
	"time"
)

// DefaultParam is the route parameter holding the requested file name.
const DefaultParam = "path"

type config struct {
	fs      fs.FS
	subPath string
	index   string
	param   string
	maxAge  time.Duration
	spa     bool
}

// Option configures a static handler.
type Option func(*config)

// WithSubFS serves files from a subdirectory of the file system.
func WithSubFS(path string) Option {
	return func(c *config) {
		c.subPath = path
	}
}

// WithIndex sets the file served for directory requests. Default: index.html.
func WithIndex(name string) Option {
	return func(c *config) {
		if name != "" {
			c.index = name
		}
	}
}

// WithParam sets the route parameter that holds the file name.
func WithParam(name string) Option {
	return func(c *config) {
		if name != "" {
			c.param = name
		}
	}
}

// WithMaxAge adds a Cache-Control max-age header to served files.
func WithMaxAge(d time.Duration) Option {
	return func(c *config) {
		c.maxAge = d
	}
}

// WithSPAFallback serves the root index file for missing paths without a
// file extension, for client-side routing.
func WithSPAFallback() Option {
	return func(c *config) {
		c.spa = true
	}
}

func newConfig(fsys fs.FS, opts ...Option) *config {
	c := &config{fs: fsys, index: "index.html", param: DefaultParam}
	for _, opt := range opts {
		opt(c)
	}

	if c.subPath != "" {
		sub, err := fs.Sub(fsys, c.subPath)
		if err != nil {
			panic("static: invalid sub-path '" + c.subPath + "': " + err.Error())
		}
		c.fs = sub
	}
	return c
}
