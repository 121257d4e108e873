package app

import "time"

// Config holds application settings loaded from the environment.
type Config struct {
	BodyLimit       int64         `env:"APP_BODY_LIMIT" envDefault:"4194304"` // 4MB
	ProxyHeader     string        `env:"APP_PROXY_HEADER"`
	CaseInsensitive bool          `env:"APP_CASE_INSENSITIVE" envDefault:"false"`
	ShutdownTimeout time.Duration `env:"APP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// NewFromConfig creates an application from cfg. Options are applied after
// the config and win over it.
func NewFromConfig(cfg Config, opts ...Option) *App {
	configOpts := make([]Option, 0, 4+len(opts))
	if cfg.BodyLimit != 0 {
		configOpts = append(configOpts, WithBodyLimit(cfg.BodyLimit))
	}
	if cfg.ProxyHeader != "" {
		configOpts = append(configOpts, WithProxyHeader(cfg.ProxyHeader))
	}
	if cfg.CaseInsensitive {
		configOpts = append(configOpts, WithCaseInsensitive())
	}
	if cfg.ShutdownTimeout > 0 {
		configOpts = append(configOpts, WithShutdownTimeout(cfg.ShutdownTimeout))
	}
	return New(append(configOpts, opts...)...)
}
