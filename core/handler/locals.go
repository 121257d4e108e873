package handler

import (
	"fmt"
	"sync"
)

// Locals is an application-wide key/value store shared by all requests.
// Safe for concurrent use.
type Locals struct {
	mu     sync.RWMutex
	values map[string]any
}

// NewLocals creates an empty store.
func NewLocals() *Locals {
	return &Locals{values: make(map[string]any)}
}

// Set stores a value under key, replacing any previous value.
func (l *Locals) Set(key string, value any) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.values[key] = value
}

// Get returns the value stored under key.
func (l *Locals) Get(key string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	v, ok := l.values[key]
	return v, ok
}

// Delete removes key from the store.
func (l *Locals) Delete(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.values, key)
}

// Clone returns an independent copy of the store.
func (l *Locals) Clone() *Locals {
	l.mu.RLock()
	defer l.mu.RUnlock()
	cp := make(map[string]any, len(l.values))
	for k, v := range l.values {
		cp[k] = v
	}
	return &Locals{values: cp}
}

// AppLocal returns the application-wide value stored under key as T.
func AppLocal[T any](c *Ctx, key string) (T, bool) {
	var zero T
	v, ok := c.App().Get(key)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// Local returns the per-request value stored under key as T.
func Local[T any](c *Ctx, key any) (T, bool) {
	var zero T
	v, ok := c.locals[key]
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	return t, ok
}

// State returns the state attached to the running handler as T.
func State[T any](c *Ctx) (T, bool) {
	var zero T
	if c.current == nil || c.current.state == nil {
		return zero, false
	}
	t, ok := c.current.state.(T)
	return t, ok
}

// MustState is like State but panics when the handler carries no state of type T.
func MustState[T any](c *Ctx) T {
	t, ok := State[T](c)
	if !ok {
		var have any
		if c.current != nil {
			have = c.current.state
		}
		panic(fmt.Errorf("%w: want %T, have %T", ErrStateType, t, have))
	}
	return t
}
