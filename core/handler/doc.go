// Package handler defines the calling convention shared by every piece of code
// that runs inside a request: middleware, terminal method handlers and the
// catch-all ALL handler.
//
// # Core Types
//
//	// Response renders the output of a handler onto the response writer.
//	type Response func(w http.ResponseWriter, r *http.Request) error
//
//	// Func is the single signature for middleware and terminal handlers.
//	type Func func(c *Ctx) Response
//
//	// ErrorHandler converts an error returned by a Response into a response.
//	type ErrorHandler func(c *Ctx, err error)
//
// A Func is wrapped into a *Handler which records its role (method handler,
// ALL handler, global middleware or local middleware), optional typed state and
// the file:line where it was registered.
//
// # Continuation
//
// Middleware does not receive a "next" function. Every request owns a *Ctx that
// holds the resolved chain and a cursor. Calling c.Next() advances the cursor and
// runs the next handler, returning once it has finished:
//
//	func timing(c *handler.Ctx) handler.Response {
//		start := time.Now()
//		c.Next()
//		c.Header().Set("X-Elapsed", time.Since(start).String())
//		return nil
//	}
//
// Not calling c.Next() short-circuits the chain. Calling it from a terminal
// handler is a no-op, as is calling it after c.Close().
//
// # Response Buffering
//
// Responses are buffered in the context until the chain has finished, so
// middleware can inspect and change the status, headers and body produced by
// inner handlers. c.ResponseWriter().(http.Flusher).Flush() commits the buffered
// response and switches the writer to streaming. Hijacking the connection, as a
// websocket upgrade does, closes the context.
//
// # State and Locals
//
// Per-request values are stored with c.SetValue and read back through c.Value or
// the typed Local helper. Application-wide values live in a shared *Locals read
// with AppLocal. Values bound to a single handler are attached with
// (*Handler).WithState and read with State or MustState.
package handler
