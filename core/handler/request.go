package handler

import (
	"errors"
	"fmt"
	"io"
	"mime"
	"net"
	"net/http"
	"strings"

	"github.com/dmitrymomot/maw/core/binder"
)

// Method returns the request method.
func (c *Ctx) Method() string {
	return c.req.Method
}

// Path returns the request URL path.
func (c *Ctx) Path() string {
	return c.req.URL.Path
}

// Param returns the path parameter captured under key.
func (c *Ctx) Param(key string) string {
	return c.params.ByName(key)
}

// Params returns all captured path parameters.
func (c *Ctx) Params() Params {
	return c.params
}

// Query returns the first query string value for key.
func (c *Ctx) Query(key string) string {
	if c.query == nil {
		c.query = c.req.URL.Query()
	}
	return c.query.Get(key)
}

// IP returns the client address. When a proxy header is configured and present
// on the request, its first entry is used; headers are easily spoofed, so only
// configure one behind a trusted proxy.
func (c *Ctx) IP() string {
	if h := c.globals.ProxyHeader; h != "" {
		if v := c.req.Header.Get(h); v != "" {
			if i := strings.IndexByte(v, ','); i >= 0 {
				v = v[:i]
			}
			return strings.TrimSpace(v)
		}
	}
	host, _, err := net.SplitHostPort(c.req.RemoteAddr)
	if err != nil {
		return c.req.RemoteAddr
	}
	return host
}

// SetBodyLimit overrides the maximum number of body bytes Body will read.
// Values <= 0 disable the limit.
func (c *Ctx) SetBodyLimit(n int64) {
	c.bodyLimit = n
}

// BodyLimit returns the body limit in effect for this request.
func (c *Ctx) BodyLimit() int64 {
	return c.bodyLimit
}

// Body reads the whole request body, bounded by the body limit.
// The result is cached; the underlying reader is consumed once.
func (c *Ctx) Body() ([]byte, error) {
	if c.bodyRead {
		return c.body, nil
	}
	if c.req.Body == nil || c.req.Body == http.NoBody {
		c.bodyRead = true
		return nil, nil
	}

	var r io.Reader = c.req.Body
	if c.bodyLimit > 0 {
		if c.req.ContentLength > c.bodyLimit {
			return nil, &http.MaxBytesError{Limit: c.bodyLimit}
		}
		r = http.MaxBytesReader(c.w.rw, c.req.Body, c.bodyLimit)
	}

	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read request body: %w", err)
	}
	c.body = b
	c.bodyRead = true
	return b, nil
}

// Parse decodes the request body into v according to its Content-Type:
// JSON, XML, or URL-encoded and multipart forms. Form bodies bind to a struct
// with `form` and `file` tags, a *url.Values or a *map[string]string.
func (c *Ctx) Parse(v any) error {
	ct := c.req.Header.Get("Content-Type")
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil && ct != "" {
		return ErrUnsupportedMediaType.WithBrief("invalid content type")
	}

	switch mediaType {
	case "application/json":
		b, err := c.Body()
		if err != nil {
			return err
		}
		return bindError(binder.DecodeJSON(b, v), "invalid JSON body")
	case "application/xml", "text/xml":
		b, err := c.Body()
		if err != nil {
			return err
		}
		return bindError(binder.DecodeXML(b, v), "invalid XML body")
	case "application/x-www-form-urlencoded", "multipart/form-data":
		if c.bodyLimit > 0 && c.req.Body != nil {
			c.req.Body = http.MaxBytesReader(c.w.rw, c.req.Body, c.bodyLimit)
		}
		return bindError(binder.Form()(c.req, v), "invalid form data")
	default:
		return ErrUnsupportedMediaType
	}
}

// BindQuery fills the struct v points to from the query string using
// `query:"name"` tags.
func (c *Ctx) BindQuery(v any) error {
	return bindError(binder.Query()(c.req, v), "invalid query parameters")
}

// BindParams fills the struct v points to from the captured path parameters
// using `path:"name"` tags.
func (c *Ctx) BindParams(v any) error {
	extract := func(_ *http.Request, name string) string {
		return c.params.ByName(name)
	}
	return bindError(binder.Path(extract)(c.req, v), "invalid path parameters")
}

// bindError maps binder failures onto status errors. Oversized bodies and
// unusable targets pass through unchanged.
func bindError(err error, brief string) error {
	var mbe *http.MaxBytesError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &mbe), errors.Is(err, binder.ErrUnsupportedTarget):
		return err
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return ErrUnsupportedMediaType
	default:
		return ErrBadRequest.WithBrief(brief)
	}
}
