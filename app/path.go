package app

import (
	"net/http"
	"net/url"
	"strings"
	"sync"

	"golang.org/x/text/cases"
)

// A Caser must not be shared between goroutines.
var folders = sync.Pool{
	New: func() any {
		c := cases.Fold()
		return &c
	},
}

// requestPath returns the path as the client sent it, still escaped, so an
// encoded "/" or "\" stays inside its segment. Literal backslashes are kept
// for normalizePath.
func requestPath(r *http.Request) string {
	if p, _, _ := strings.Cut(r.RequestURI, "?"); strings.HasPrefix(p, "/") {
		if u, err := url.PathUnescape(p); err == nil && u == r.URL.Path {
			return p
		}
	}
	if r.URL.RawPath != "" && r.URL.EscapedPath() == r.URL.RawPath {
		return r.URL.RawPath
	}
	// EscapedPath encodes a literal backslash; without a raw form the two are
	// indistinguishable, so treat it as a separator.
	return strings.ReplaceAll(r.URL.EscapedPath(), "%5C", `\`)
}

// normalizePath turns an escaped request path into the form routes are
// stored in.
func normalizePath(p string, fold bool) string {
	if p == "" || p == "/" {
		return "/"
	}
	if strings.IndexByte(p, '\\') >= 0 {
		p = strings.ReplaceAll(p, `\`, "/")
	}
	if strings.Contains(p, "//") {
		p = collapseSlashes(p)
	}
	if p[0] != '/' {
		p = "/" + p
	}
	if len(p) > 1 && p[len(p)-1] == '/' {
		p = p[:len(p)-1]
	}
	if fold {
		p = foldPath(p)
	}
	return p
}

// foldPath case-folds every segment. Escaped segments are folded in their
// decoded form and escaped again.
func foldPath(p string) string {
	c := folders.Get().(*cases.Caser)
	defer folders.Put(c)

	if strings.IndexByte(p, '%') < 0 {
		return c.String(p)
	}
	segs := strings.Split(p, "/")
	for i, s := range segs {
		if strings.IndexByte(s, '%') < 0 {
			segs[i] = c.String(s)
			continue
		}
		u, err := url.PathUnescape(s)
		if err != nil {
			segs[i] = c.String(s)
			continue
		}
		segs[i] = url.PathEscape(c.String(u))
	}
	return strings.Join(segs, "/")
}

func collapseSlashes(p string) string {
	var b strings.Builder
	b.Grow(len(p))
	prev := byte(0)
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && prev == '/' {
			continue
		}
		prev = p[i]
		b.WriteByte(p[i])
	}
	return b.String()
}
