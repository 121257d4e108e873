// Package ratelimiter provides token bucket rate limiting with pluggable
// storage backends.
//
// A bucket holds at most Capacity tokens and regains RefillRate tokens every
// RefillInterval. Each request consumes tokens; a request that would take the
// bucket below zero is denied and consumes nothing.
//
//	limiter, err := ratelimiter.NewBucket(ratelimiter.NewMemoryStore(), ratelimiter.Config{
//		Capacity:       100,
//		RefillRate:     10,
//		RefillInterval: time.Second,
//	})
//	if err != nil {
//		return err
//	}
//
//	result, err := limiter.Allow(ctx, "user:123")
//	if err != nil {
//		return err
//	}
//	if !result.Allowed() {
//		log.Printf("retry after %s", result.RetryAfter())
//	}
//
// # Stores
//
// MemoryStore keeps buckets in process. Its Run method removes buckets that
// have not been used for a while and is meant to run next to the server,
// e.g. through app.WithWorker(store.Run).
//
// RedisStore keeps buckets in Redis, so every instance of an application
// shares the same limits. Refill and consumption run in one Lua script.
//
// # HTTP
//
// middleware.RateLimit applies a RateLimiter per client IP (or any other key)
// and answers 429 Too Many Requests when the bucket is empty.
package ratelimiter
