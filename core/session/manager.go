package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/maw/core/cookie"
)

// Manager moves sessions between requests, the session cookie and a Store.
type Manager struct {
	cookies    *cookie.Manager
	store      Store
	name       string
	cookieType cookie.Type
	ttl        time.Duration
	secure     bool
	sameSite   http.SameSite
	newID      func() string
}

// Option configures a Manager.
type Option func(*Manager)

// WithCookieName sets the session cookie name. Default: "maw.session".
func WithCookieName(name string) Option {
	return func(m *Manager) {
		if name != "" {
			m.name = name
		}
	}
}

// WithEncryptedCookie encrypts the session cookie instead of signing it.
func WithEncryptedCookie() Option {
	return func(m *Manager) {
		m.cookieType = cookie.Encrypted
	}
}

// WithTTL sets the session lifetime used for the cookie max-age and store
// expiry. Zero makes the cookie last for the browser session.
func WithTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.ttl = ttl
	}
}

// WithSecure sets the Secure cookie attribute. Default: true.
func WithSecure(secure bool) Option {
	return func(m *Manager) {
		m.secure = secure
	}
}

// WithSameSite sets the SameSite cookie attribute. Default: Lax.
func WithSameSite(sameSite http.SameSite) Option {
	return func(m *Manager) {
		m.sameSite = sameSite
	}
}

// WithIDGenerator replaces the random UUID session ids.
func WithIDGenerator(fn func() string) Option {
	return func(m *Manager) {
		if fn != nil {
			m.newID = fn
		}
	}
}

// NewManager creates a manager. A nil store keeps sessions in the cookie.
func NewManager(cookies *cookie.Manager, store Store, opts ...Option) (*Manager, error) {
	if cookies == nil {
		return nil, ErrNilCookies
	}
	if store == nil {
		store = CookieStore{}
	}

	m := &Manager{
		cookies:    cookies,
		store:      store,
		name:       DefaultCookieName,
		cookieType: cookie.Signed,
		ttl:        24 * time.Hour,
		secure:     true,
		sameSite:   http.SameSiteLaxMode,
		newID:      uuid.NewString,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.cookieType == cookie.Plain {
		return nil, ErrPlainCookie
	}
	return m, nil
}

// CookieName returns the session cookie name.
func (m *Manager) CookieName() string {
	return m.name
}

// Inline reports whether sessions are stored in the cookie.
func (m *Manager) Inline() bool {
	_, ok := m.store.(inliner)
	return ok
}

// Load returns the session for r and its id. A missing, invalid or unknown
// cookie yields an empty session; the id is kept so the session is saved
// under it. Store failures are returned together with an empty session.
func (m *Manager) Load(ctx context.Context, r *http.Request) (*Session, string, error) {
	if m.Inline() {
		s, err := cookie.GetJSON[*Session](m.cookies, r, m.name, m.cookieType)
		if err != nil || s == nil {
			return New(), "", nil
		}
		return s, "", nil
	}

	id, err := cookie.GetJSON[string](m.cookies, r, m.name, m.cookieType)
	if err != nil || id == "" {
		return New(), "", nil
	}

	s, err := m.store.Load(ctx, id)
	switch {
	case err == nil:
		return s, id, nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrCorruptedData):
		return New(), id, nil
	default:
		return New(), id, fmt.Errorf("session: load: %w", err)
	}
}

// Save persists s when it was modified and writes the session cookie. It
// returns the id the session was saved under.
func (m *Manager) Save(ctx context.Context, w http.ResponseWriter, id string, s *Session) (string, error) {
	if s == nil || !s.Modified() {
		return id, nil
	}

	if m.Inline() {
		return "", m.cookies.SetJSON(w, m.name, s, m.cookieType, m.cookieOptions()...)
	}

	if id == "" {
		id = m.newID()
	}
	if err := m.store.Save(ctx, id, s, m.ttl); err != nil {
		return id, fmt.Errorf("session: save: %w", err)
	}
	return id, m.cookies.SetJSON(w, m.name, id, m.cookieType, m.cookieOptions()...)
}

// Destroy removes the stored session and expires the cookie.
func (m *Manager) Destroy(ctx context.Context, w http.ResponseWriter, id string) error {
	m.cookies.Delete(w, m.name)
	if id == "" || m.Inline() {
		return nil
	}
	if err := m.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	return nil
}

func (m *Manager) cookieOptions() []cookie.Option {
	opts := []cookie.Option{
		cookie.WithPath("/"),
		cookie.WithHTTPOnly(true),
		cookie.WithSecure(m.secure),
		cookie.WithSameSite(m.sameSite),
	}
	if m.ttl > 0 {
		opts = append(opts, cookie.WithMaxAge(int(m.ttl/time.Second)))
	}
	return opts
}
