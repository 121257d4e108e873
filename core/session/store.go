package session

import (
	"context"
	"sync"
	"time"
)

// Store persists session data by id. Load returns ErrNotFound for unknown
// or expired ids. Implementations must be safe for concurrent use.
type Store interface {
	Load(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, id string, s *Session, ttl time.Duration) error
	Delete(ctx context.Context, id string) error
}

// inliner is implemented by stores that keep the data in the cookie itself.
type inliner interface {
	inline()
}

// CookieStore keeps the whole session in the session cookie. Its Store
// methods are never called by the Manager.
type CookieStore struct{}

func (CookieStore) inline() {}

func (CookieStore) Load(context.Context, string) (*Session, error) {
	return nil, ErrNotFound
}

func (CookieStore) Save(context.Context, string, *Session, time.Duration) error {
	return nil
}

func (CookieStore) Delete(context.Context, string) error {
	return nil
}

// MemoryStore keeps sessions in process memory. Data is lost on restart and
// not shared between instances, which makes it suitable for development and
// tests.
type MemoryStore struct {
	mu    sync.RWMutex
	items map[string]memoryItem
	now   func() time.Time
}

type memoryItem struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[string]memoryItem), now: time.Now}
}

func (m *MemoryStore) Load(_ context.Context, id string) (*Session, error) {
	m.mu.RLock()
	item, ok := m.items[id]
	m.mu.RUnlock()

	if !ok || (!item.expiresAt.IsZero() && m.now().After(item.expiresAt)) {
		return nil, ErrNotFound
	}

	s := New()
	if err := s.UnmarshalJSON(item.data); err != nil {
		return nil, err
	}
	return s, nil
}

// Save stores a copy of the session. A zero ttl never expires.
func (m *MemoryStore) Save(_ context.Context, id string, s *Session, ttl time.Duration) error {
	data, err := s.MarshalJSON()
	if err != nil {
		return err
	}

	item := memoryItem{data: data}
	if ttl > 0 {
		item.expiresAt = m.now().Add(ttl)
	}

	m.mu.Lock()
	m.items[id] = item
	m.mu.Unlock()
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	delete(m.items, id)
	m.mu.Unlock()
	return nil
}

// DeleteExpired removes expired sessions and returns how many were removed.
func (m *MemoryStore) DeleteExpired(context.Context) (int64, error) {
	now := m.now()
	var n int64

	m.mu.Lock()
	defer m.mu.Unlock()
	for id, item := range m.items {
		if !item.expiresAt.IsZero() && now.After(item.expiresAt) {
			delete(m.items, id)
			n++
		}
	}
	return n, nil
}
