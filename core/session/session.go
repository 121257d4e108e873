package session

import (
	"encoding/json"
	"fmt"
	"maps"
	"slices"

	"github.com/dmitrymomot/maw/core/handler"
)

// Session holds values encoded as JSON. It belongs to a single request and
// is not safe for concurrent use.
type Session struct {
	data     map[string]json.RawMessage
	modified bool
}

// New returns an empty, unmodified session.
func New() *Session {
	return &Session{data: make(map[string]json.RawMessage)}
}

// Get decodes the value stored under key into a T.
func Get[T any](s *Session, key string) (T, error) {
	var v T
	raw, ok := s.data[key]
	if !ok {
		return v, KeyNotFoundError{Key: key}
	}
	if err := json.Unmarshal(raw, &v); err != nil {
		return v, DecodeError{Key: key, Err: err}
	}
	return v, nil
}

// Decode decodes the value stored under key into dest.
func (s *Session) Decode(key string, dest any) error {
	raw, ok := s.data[key]
	if !ok {
		return KeyNotFoundError{Key: key}
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return DecodeError{Key: key, Err: err}
	}
	return nil
}

// Set stores v under key.
func (s *Session) Set(key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("%w: %q: %w", ErrInvalidValue, key, err)
	}
	s.data[key] = raw
	s.modified = true
	return nil
}

// Delete removes key and reports whether it was present. The session is
// marked modified either way.
func (s *Session) Delete(key string) bool {
	_, ok := s.data[key]
	delete(s.data, key)
	s.modified = true
	return ok
}

// Clear removes every key.
func (s *Session) Clear() {
	clear(s.data)
	s.modified = true
}

// Has reports whether key is present.
func (s *Session) Has(key string) bool {
	_, ok := s.data[key]
	return ok
}

// Keys returns the stored keys in sorted order.
func (s *Session) Keys() []string {
	return slices.Sorted(maps.Keys(s.data))
}

// Len returns the number of stored keys.
func (s *Session) Len() int {
	return len(s.data)
}

// Modified reports whether the session changed since it was loaded.
func (s *Session) Modified() bool {
	return s.modified
}

// MarshalJSON encodes the session data.
func (s *Session) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.data)
}

// UnmarshalJSON replaces the session data. The result is unmodified.
func (s *Session) UnmarshalJSON(b []byte) error {
	data := make(map[string]json.RawMessage)
	if err := json.Unmarshal(b, &data); err != nil {
		return fmt.Errorf("%w: %w", ErrCorruptedData, err)
	}
	s.data = data
	s.modified = false
	return nil
}

type ctxKey struct{}

// Attach makes s available to later handlers of the request.
func Attach(c *handler.Ctx, s *Session) {
	c.SetValue(ctxKey{}, s)
}

// From returns the session attached to the request, or a detached empty
// session when the session middleware is not installed.
func From(c *handler.Ctx) *Session {
	if s, ok := handler.Local[*Session](c, ctxKey{}); ok && s != nil {
		return s
	}
	return New()
}

// Lookup returns the attached session and whether there is one.
func Lookup(c *handler.Ctx) (*Session, bool) {
	s, ok := handler.Local[*Session](c, ctxKey{})
	return s, ok && s != nil
}
