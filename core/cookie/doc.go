// Package cookie reads and writes plain, signed and encrypted HTTP cookies.
//
// A Manager is created from one or more secrets. Signing and encryption keys
// are derived from each secret with HKDF-SHA256, so a single master secret
// covers both. The first secret is used for new cookies; the others are only
// tried when reading, which allows rotating secrets without logging users
// out.
//
//	m, err := cookie.New([]string{os.Getenv("COOKIE_SECRET")})
//	if err != nil {
//		return err
//	}
//	err = m.Set(w, "theme", "dark", cookie.Signed)
//	theme, err := m.Get(r, "theme", cookie.Signed)
//
// Signed values are readable by the client but cannot be modified. Encrypted
// values use AES-256-GCM and are opaque. Both are bound to the cookie name.
//
// SetJSON and GetJSON store arbitrary values as JSON, and the flash helpers
// keep a value for exactly one read.
package cookie
