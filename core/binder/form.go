package binder

import (
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"
	"net/url"
	"path"
	"reflect"
	"strings"
)

// DefaultMaxMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const DefaultMaxMemory = 32 << 20

var fileHeaderType = reflect.TypeFor[*multipart.FileHeader]()

// Form binds application/x-www-form-urlencoded and multipart/form-data bodies.
//
// Struct fields use `form:"name"` for values and `file:"name"` for uploads.
// A *url.Values or *map[string]string target receives the raw values instead.
// Multipart temporary files stay on the request; the server removes them once
// the handler returns.
func Form() Binder {
	return func(r *http.Request, v any) error {
		ct := r.Header.Get("Content-Type")
		if ct == "" {
			return ErrMissingContentType
		}
		mediaType, params, err := mime.ParseMediaType(ct)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
		}

		var (
			values url.Values
			files  map[string][]*multipart.FileHeader
		)
		switch mediaType {
		case "application/x-www-form-urlencoded":
			if err := r.ParseForm(); err != nil {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.Form
		case "multipart/form-data":
			if !validBoundary(params["boundary"]) {
				return fmt.Errorf("%w: invalid multipart boundary", ErrFailedToParseForm)
			}
			if err := r.ParseMultipartForm(DefaultMaxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
				return fmt.Errorf("%w: %w", ErrFailedToParseForm, err)
			}
			values = r.Form
			if r.MultipartForm != nil {
				files = r.MultipartForm.File
			}
		default:
			return fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mediaType)
		}

		return bindForm(v, values, files)
	}
}

func bindForm(v any, values url.Values, files map[string][]*multipart.FileHeader) error {
	switch t := v.(type) {
	case *url.Values:
		*t = values
		return nil
	case *map[string]string:
		m := make(map[string]string, len(values))
		for k := range values {
			m[k] = sanitizeString(values.Get(k))
		}
		*t = m
		return nil
	}

	rv, err := structTarget(v)
	if err != nil {
		return err
	}
	rt := rv.Type()

	for i := range rv.NumField() {
		field := rv.Field(i)
		sf := rt.Field(i)
		if !field.CanSet() {
			continue
		}

		if tag := sf.Tag.Get("form"); tag != "" && tag != "-" {
			name, _, _ := strings.Cut(tag, ",")
			if vals := values[name]; name != "" && len(vals) > 0 {
				if err := setField(field, vals); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, sf.Name, err)
				}
			}
		}

		if tag := sf.Tag.Get("file"); tag != "" && tag != "-" {
			if fhs := files[tag]; len(fhs) > 0 {
				if err := setFiles(field, fhs); err != nil {
					return fmt.Errorf("%w: field %s: %v", ErrFailedToParseForm, sf.Name, err)
				}
			}
		}
	}
	return nil
}

func setFiles(field reflect.Value, fhs []*multipart.FileHeader) error {
	for _, fh := range fhs {
		fh.Filename = sanitizeFilename(fh.Filename)
	}

	switch t := field.Type(); {
	case t == fileHeaderType:
		field.Set(reflect.ValueOf(fhs[0]))
	case t.Kind() == reflect.Slice && t.Elem() == fileHeaderType:
		field.Set(reflect.ValueOf(append([]*multipart.FileHeader(nil), fhs...)))
	default:
		return fmt.Errorf("unsupported file field type %s", t)
	}
	return nil
}

// sanitizeFilename keeps only the base name of a client supplied file name.
func sanitizeFilename(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.ReplaceAll(name, "\x00", "")
	name = path.Base(name)
	if name == "." || name == ".." || name == "/" || name == "" {
		return "unnamed"
	}
	return name
}

func validBoundary(b string) bool {
	if b == "" || len(b) > 70 {
		return false
	}
	return !strings.ContainsAny(b, "\x00\r\n")
}
