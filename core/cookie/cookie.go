package cookie

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"
)

const (
	// MaxCookieSize is the default maximum size of a Set-Cookie header value.
	MaxCookieSize = 4096
	// minSecretLength is the minimum secret length accepted by New.
	minSecretLength = 32
	// flashPrefix namespaces flash cookies.
	flashPrefix = "__flash_"
)

// Type selects how a cookie value is protected.
type Type int

const (
	// Plain values are stored as is.
	Plain Type = iota
	// Signed values carry an HMAC-SHA256 signature.
	Signed
	// Encrypted values are sealed with AES-256-GCM.
	Encrypted
)

func (t Type) String() string {
	switch t {
	case Plain:
		return "plain"
	case Signed:
		return "signed"
	case Encrypted:
		return "encrypted"
	default:
		return fmt.Sprintf("Type(%d)", int(t))
	}
}

// Manager signs, encrypts and verifies cookies. Safe for concurrent use.
type Manager struct {
	keys     []key
	defaults Options
	maxSize  int
}

// New creates a manager. Every secret must have at least 32 characters;
// empty secrets are ignored.
func New(secrets []string, opts ...Option) (*Manager, error) {
	secrets = slices.DeleteFunc(slices.Clone(secrets), func(s string) bool { return s == "" })
	if len(secrets) == 0 {
		return nil, ErrNoSecret
	}

	keys := make([]key, 0, len(secrets))
	for i, s := range secrets {
		if len(s) < minSecretLength {
			return nil, fmt.Errorf("%w: secret %d has %d chars, need at least %d",
				ErrSecretTooShort, i, len(s), minSecretLength)
		}
		k, err := deriveKey(s)
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}

	defaults := applyOptions(Options{
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}, opts)

	return &Manager{keys: keys, defaults: defaults, maxSize: MaxCookieSize}, nil
}

// Set writes a cookie of the given type.
func (m *Manager) Set(w http.ResponseWriter, name, value string, typ Type, opts ...Option) error {
	encoded, err := m.encode(name, value, typ)
	if err != nil {
		return err
	}

	o := applyOptions(m.defaults, opts)
	c := &http.Cookie{
		Name:     name,
		Value:    encoded,
		Path:     o.Path,
		Domain:   o.Domain,
		MaxAge:   o.MaxAge,
		Expires:  o.Expires,
		Secure:   o.Secure,
		HttpOnly: o.HttpOnly,
		SameSite: o.SameSite,
	}

	if size := len(c.String()); size > m.maxSize {
		return ErrCookieTooLarge{Name: name, Size: size, Max: m.maxSize}
	}
	http.SetCookie(w, c)
	return nil
}

// Get reads and verifies a cookie of the given type.
func (m *Manager) Get(r *http.Request, name string, typ Type) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		if errors.Is(err, http.ErrNoCookie) {
			return "", ErrCookieNotFound
		}
		return "", err
	}
	return m.decode(name, c.Value, typ)
}

// Delete expires a cookie on the client.
func (m *Manager) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     m.defaults.Path,
		Domain:   m.defaults.Domain,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
		Secure:   m.defaults.Secure,
		HttpOnly: m.defaults.HttpOnly,
		SameSite: m.defaults.SameSite,
	})
}

// SetJSON stores v as JSON in a cookie of the given type.
func (m *Manager) SetJSON(w http.ResponseWriter, name string, v any, typ Type, opts ...Option) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cookie: marshal %q: %w", name, err)
	}
	return m.Set(w, name, string(data), typ, opts...)
}

// GetJSON decodes a JSON cookie into a value of type T.
func GetJSON[T any](m *Manager, r *http.Request, name string, typ Type) (T, error) {
	var v T
	data, err := m.Get(r, name, typ)
	if err != nil {
		return v, err
	}
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return v, fmt.Errorf("cookie: unmarshal %q: %w", name, err)
	}
	return v, nil
}

// SetFlash stores a value that is removed by the next GetFlash.
func (m *Manager) SetFlash(w http.ResponseWriter, key string, v any) error {
	return m.SetJSON(w, flashPrefix+key, v, Encrypted)
}

// GetFlash reads a flash value into dest and deletes it.
func (m *Manager) GetFlash(w http.ResponseWriter, r *http.Request, key string, dest any) error {
	name := flashPrefix + key
	data, err := m.Get(r, name, Encrypted)
	if err != nil {
		return err
	}
	m.Delete(w, name)

	if err := json.Unmarshal([]byte(data), dest); err != nil {
		return fmt.Errorf("cookie: unmarshal flash: %w", err)
	}
	return nil
}

func (m *Manager) encode(name, value string, typ Type) (string, error) {
	switch typ {
	case Plain:
		return value, nil
	case Signed:
		return m.sign(name, value), nil
	case Encrypted:
		return m.encrypt(name, value)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
}

func (m *Manager) decode(name, value string, typ Type) (string, error) {
	switch typ {
	case Plain:
		return value, nil
	case Signed:
		return m.verify(name, value)
	case Encrypted:
		return m.decrypt(name, value)
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownType, typ)
	}
}

// sign returns base64(value) + "." + base64(hmac(name=value)).
func (m *Manager) sign(name, value string) string {
	sig := mac(m.keys[0].signing, name, value)
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." +
		base64.RawURLEncoding.EncodeToString(sig)
}

func (m *Manager) verify(name, signed string) (string, error) {
	encodedValue, encodedSig, ok := strings.Cut(signed, ".")
	if !ok {
		return "", ErrInvalidFormat
	}
	value, err := base64.RawURLEncoding.DecodeString(encodedValue)
	if err != nil {
		return "", ErrInvalidFormat
	}
	sig, err := base64.RawURLEncoding.DecodeString(encodedSig)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, k := range m.keys {
		if hmac.Equal(sig, mac(k.signing, name, string(value))) {
			return string(value), nil
		}
	}
	return "", ErrInvalidSignature
}

func mac(key []byte, name, value string) []byte {
	h := hmac.New(sha256.New, key)
	h.Write([]byte(name))
	h.Write([]byte{'='})
	h.Write([]byte(value))
	return h.Sum(nil)
}

func (m *Manager) encrypt(name, value string) (string, error) {
	aead := m.keys[0].aead
	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("cookie: nonce: %w", err)
	}
	sealed := aead.Seal(nonce, nonce, []byte(value), []byte(name))
	return base64.RawURLEncoding.EncodeToString(sealed), nil
}

func (m *Manager) decrypt(name, encrypted string) (string, error) {
	data, err := base64.RawURLEncoding.DecodeString(encrypted)
	if err != nil {
		return "", ErrInvalidFormat
	}

	for _, k := range m.keys {
		n := k.aead.NonceSize()
		if len(data) < n {
			return "", ErrInvalidFormat
		}
		plain, err := k.aead.Open(nil, data[:n], data[n:], []byte(name))
		if err == nil {
			return string(plain), nil
		}
	}
	return "", ErrDecryptionFailed
}
