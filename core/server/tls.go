package server

import (
	"crypto/tls"
	"fmt"
)

// DefaultTLSConfig is TLS 1.2+ with forward-secret AEAD cipher suites.
func DefaultTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS12,
		CipherSuites: []uint16{
			tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
			tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
			tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
			tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
		},
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
	}
}

// ModernTLSConfig only accepts TLS 1.3.
func ModernTLSConfig() *tls.Config {
	return &tls.Config{
		MinVersion: tls.VersionTLS13,
		CurvePreferences: []tls.CurveID{
			tls.X25519,
			tls.CurveP256,
		},
	}
}

// TLSConfigOption adjusts a tls.Config built by NewTLSConfig.
type TLSConfigOption func(*tls.Config) error

// WithTLSCertificate loads a PEM certificate and key pair from files.
func WithTLSCertificate(certFile, keyFile string) TLSConfigOption {
	return func(cfg *tls.Config) error {
		if certFile == "" || keyFile == "" {
			return ErrEmptyCertPath
		}
		cert, err := tls.LoadX509KeyPair(certFile, keyFile)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrFailedLoadCert, err)
		}
		cfg.Certificates = append(cfg.Certificates, cert)
		return nil
	}
}

// WithTLSMinVersion overrides the minimum protocol version.
func WithTLSMinVersion(version uint16) TLSConfigOption {
	return func(cfg *tls.Config) error {
		cfg.MinVersion = version
		return nil
	}
}

// WithTLSClientAuth sets the client certificate policy.
func WithTLSClientAuth(clientAuthType tls.ClientAuthType) TLSConfigOption {
	return func(cfg *tls.Config) error {
		cfg.ClientAuth = clientAuthType
		return nil
	}
}

// NewTLSConfig applies opts to DefaultTLSConfig.
func NewTLSConfig(opts ...TLSConfigOption) (*tls.Config, error) {
	cfg := DefaultTLSConfig()
	for _, opt := range opts {
		if err := opt(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
