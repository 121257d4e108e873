// Package config fills env-tagged structs from the process environment.
//
// Load parses a struct with caarlos0/env. Before the first parse it reads a
// .env file from the working directory through godotenv; variables that are
// already set win, and a missing file is not an error.
//
// Results are cached per type. The first successful Load of a type parses the
// environment; later calls copy the cached value and never look at the
// environment again, so changes made after startup are not picked up. A failed
// parse caches nothing and the next call retries. Concurrent first loads of
// the same type parse once.
//
//	type storeConfig struct {
//		DSN      string        `env:"DATABASE_URL,required"`
//		MaxConns int32         `env:"DATABASE_MAX_CONNS" envDefault:"10"`
//		Timeout  time.Duration `env:"DATABASE_TIMEOUT" envDefault:"5s"`
//	}
//
//	var cfg storeConfig
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
// MustLoad panics instead of returning the error and suits package level
// setup in main. Load(nil) returns ErrNilConfig.
//
// The framework packages export Config types that load the same way:
//
//	var cfg app.Config
//	config.MustLoad(&cfg)
//	a := app.NewFromConfig(cfg)
package config
