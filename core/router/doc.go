// Package router builds the routing table of an application.
//
// Routes are declared as a tree of *Router values. Each router owns a path
// segment and an ordered list of items: handlers and child routers. The tree is
// flattened once at startup into a Table, a trie keyed by full path whose
// entries hold one ready-to-run handler chain per HTTP method.
//
// # Building Routes
//
//	api := router.Group("/api").
//		Middleware(auth).
//		Push(
//			router.Group("/users").
//				Get(listUsers).
//				Post(createUser),
//			router.Group("/users/{id}").
//				LocalMiddleware(loadUser).
//				Get(getUser).
//				Delete(deleteUser),
//		)
//
//	root := router.New().
//		Middleware(logging).
//		Get(home).
//		Push(api)
//
//	table, err := root.Build()
//
// # Path Patterns
//
// Patterns are made of literal segments, {name} captures matching exactly one
// non-empty segment and a trailing {*name} capture matching the rest of the
// path. At every segment literals win over captures and captures win over the
// trailing wildcard.
//
// # Middleware Inheritance
//
// Middleware registered with Middleware is global: it applies to the handlers
// registered after it on the same router and to every child pushed after it.
// LocalMiddleware applies only to handlers registered after it on the same
// router. Order of registration is significant, and nothing is applied
// retroactively. Each resulting chain is
//
//	inherited global middleware ++ local middleware ++ terminal handler
//
// # Fallbacks
//
// All registers a handler used for any method without its own handler. When a
// path has a GET handler and no HEAD handler, HEAD requests run the GET chain
// and the body is discarded by the application host.
//
// # Configuration Errors
//
// Invalid paths and duplicate method handlers panic at registration or build
// time, with the file:line of every registration involved. Patterns that are
// distinct as strings but equivalent for matching, such as /users/{id} and
// /users/{name}, are reported by Build as a *RouteConflictError.
package router
