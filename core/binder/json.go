package binder

import (
	"bytes"
	"encoding/json"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"reflect"
)

// DefaultMaxBodySize caps the bytes the JSON and XML binders read from a body.
const DefaultMaxBodySize = 1 << 20

// JSON binds an application/json body. Unknown fields and trailing data
// are rejected.
func JSON() Binder {
	return func(r *http.Request, v any) error {
		if err := r.Context().Err(); err != nil {
			return fmt.Errorf("%w: %w", ErrFailedToParseJSON, err)
		}
		if err := expectMediaType(r, "application/json"); err != nil {
			return err
		}
		body, err := readBody(r, ErrFailedToParseJSON)
		if err != nil {
			return err
		}
		return DecodeJSON(body, v)
	}
}

// XML binds an application/xml or text/xml body.
func XML() Binder {
	return func(r *http.Request, v any) error {
		if err := expectMediaType(r, "application/xml", "text/xml"); err != nil {
			return err
		}
		body, err := readBody(r, ErrFailedToParseXML)
		if err != nil {
			return err
		}
		return DecodeXML(body, v)
	}
}

// DecodeJSON decodes an already read JSON body into v and sanitizes every
// string it populated.
func DecodeJSON(body []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrFailedToParseJSON)
		}
		var invalid *json.InvalidUnmarshalError
		if errors.As(err, &invalid) {
			return fmt.Errorf("%w: %v", ErrUnsupportedTarget, err)
		}
		return fmt.Errorf("%w: %v", ErrFailedToParseJSON, err)
	}

	var extra json.RawMessage
	if err := dec.Decode(&extra); !errors.Is(err, io.EOF) {
		return fmt.Errorf("%w: unexpected data after JSON value", ErrFailedToParseJSON)
	}

	sanitizeValue(reflect.ValueOf(v))
	return nil
}

// DecodeXML decodes an already read XML body into v.
func DecodeXML(body []byte, v any) error {
	if err := xml.Unmarshal(body, v); err != nil {
		return fmt.Errorf("%w: %v", ErrFailedToParseXML, err)
	}
	sanitizeValue(reflect.ValueOf(v))
	return nil
}

func expectMediaType(r *http.Request, accepted ...string) error {
	ct := r.Header.Get("Content-Type")
	if ct == "" {
		return ErrMissingContentType
	}
	mediaType, _, err := mime.ParseMediaType(ct)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrUnsupportedMediaType, ct)
	}
	for _, a := range accepted {
		if mediaType == a {
			return nil
		}
	}
	return fmt.Errorf("%w: got %s", ErrUnsupportedMediaType, mediaType)
}

func readBody(r *http.Request, bindErr error) ([]byte, error) {
	if r.Body == nil {
		return nil, fmt.Errorf("%w: empty body", bindErr)
	}
	body, err := io.ReadAll(io.LimitReader(r.Body, DefaultMaxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", bindErr, err)
	}
	if len(body) > DefaultMaxBodySize {
		return nil, &http.MaxBytesError{Limit: DefaultMaxBodySize}
	}
	return body, nil
}

// sanitizeValue walks v and cleans every settable string in place.
func sanitizeValue(rv reflect.Value) {
	switch rv.Kind() {
	case reflect.String:
		if rv.CanSet() {
			rv.SetString(sanitizeString(rv.String()))
		}
	case reflect.Struct:
		for i := range rv.NumField() {
			if f := rv.Field(i); f.CanSet() {
				sanitizeValue(f)
			}
		}
	case reflect.Slice, reflect.Array:
		for i := range rv.Len() {
			sanitizeValue(rv.Index(i))
		}
	case reflect.Map:
		if rv.Type().Elem().Kind() != reflect.String {
			return
		}
		// map elements are not addressable
		iter := rv.MapRange()
		for iter.Next() {
			rv.SetMapIndex(iter.Key(), reflect.ValueOf(sanitizeString(iter.Value().String())).Convert(rv.Type().Elem()))
		}
	case reflect.Pointer, reflect.Interface:
		if !rv.IsNil() {
			sanitizeValue(rv.Elem())
		}
	}
}
