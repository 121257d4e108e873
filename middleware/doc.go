// Package middleware provides the framework's middleware set. Every
// middleware is a handler.Func that does its work around a call to
// c.Next(), so it is registered like any other handler:
//
//	r := router.New().
//		Middleware(
//			middleware.Recover(),
//			middleware.RequestID(),
//			middleware.Logging(),
//			middleware.Session(sessions),
//			middleware.CSRF(middleware.CSRFConfig{UseSession: true}),
//		)
//
// Responses are buffered until the chain unwinds, so middleware may still
// set headers and cookies after c.Next() returns, unless a handler streamed
// or hijacked the connection.
//
// RateLimit takes a pkg/ratelimiter limiter, so the same middleware works
// with per-process and Redis-backed buckets.
//
// Preflight requests only reach CORS when the route accepts OPTIONS, for
// example through an All handler or an explicit Options handler; otherwise
// the application answers 405 before any middleware runs.
package middleware
