// Package health provides HTTP handlers for service health probes.
//
// Handlers:
//   - Liveness: the process is running (no dependency checks)
//   - Readiness: every dependency check passes
//   - NoContent: 204 for high-frequency pings
//
// Usage:
//
//	r.Push(
//		router.Group("/health/live").Get(health.Liveness),
//		router.Group("/health/ready").Get(health.Readiness(
//			pg.Healthcheck(pool),
//			redis.Healthcheck(client),
//		)),
//		router.Group("/ping").Get(health.NoContent),
//	)
//
// Dependency checks follow the func(context.Context) error signature.
package health
