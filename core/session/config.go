package session

import "time"

// DefaultCookieName is the name of the session cookie.
const DefaultCookieName = "maw.session"

// Config provides environment-based configuration for the session manager.
type Config struct {
	CookieName string        `env:"SESSION_COOKIE_NAME" envDefault:"maw.session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
	Secure     bool          `env:"SESSION_SECURE" envDefault:"true"`
	Encrypted  bool          `env:"SESSION_ENCRYPTED" envDefault:"false"`
}

// Options converts the configuration into manager options.
func (c Config) Options() []Option {
	opts := []Option{
		WithCookieName(c.CookieName),
		WithTTL(c.TTL),
		WithSecure(c.Secure),
	}
	if c.Encrypted {
		opts = append(opts, WithEncryptedCookie())
	}
	return opts
}
