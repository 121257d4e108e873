// Package app is the application host: it owns the router, builds it into a
// dispatch table and drives every request through its handler chain.
//
// A request is dispatched in four steps. The path is normalized (backslashes
// become slashes, repeated slashes collapse, a trailing slash is dropped and,
// when enabled, case is folded). A path without a route answers 404 and a
// route without a chain for the method answers 405 with an Allow header;
// neither invokes a handler. HEAD is served by the GET chain unless the route
// declares its own HEAD handler. Otherwise a fresh handler.Ctx runs the chain
// and the buffered response is flushed once the chain returns.
//
// Basic usage:
//
//	r := router.New().
//		Middleware(middleware.Recover(), middleware.Logging()).
//		Push(
//			router.Group("/users/{id}").Get(func(c *handler.Ctx) handler.Response {
//				return response.String("user " + c.Param("id"))
//			}),
//		)
//
//	a := app.New(app.WithRouter(r), app.WithLogger(logger.New()))
//	if err := a.Run(":8080"); err != nil {
//		log.Fatal(err)
//	}
//
// Run listens until SIGINT or SIGTERM. Listen and Serve take a context
// instead; on cancellation the listener stops accepting connections and
// in-flight requests get the shutdown timeout to finish before the remaining
// connections are closed.
//
// Shared state such as a database pool is attached with WithLocal and read in
// handlers through handler.AppLocal:
//
//	a := app.New(app.WithRouter(r), app.WithLocal("db", pool))
//
//	pool, ok := handler.AppLocal[*pgxpool.Pool](c, "db")
package app
