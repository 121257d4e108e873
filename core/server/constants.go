package server

import "time"

const (
	DefaultReadTimeout = 15 * time.Second

	DefaultWriteTimeout = 15 * time.Second

	DefaultIdleTimeout = 60 * time.Second

	// DefaultShutdownTimeout bounds how long in-flight requests may drain.
	DefaultShutdownTimeout = 10 * time.Second

	DefaultMaxHeaderBytes = 1 << 20 // 1 MB
)
