// Package session keeps per-visitor key/value data between requests.
//
// A Session is a map of JSON values with a modified flag. The Manager loads
// it at the start of a request and saves it afterwards only when it changed.
// Where the data lives is decided by the Store:
//
//   - CookieStore keeps the whole session inside the (signed or encrypted)
//     session cookie. No server-side state.
//   - MemoryStore, RedisStore and PostgresStore keep the data on the server
//     and put only the session id in the cookie.
//
// Handlers reach the session loaded by the session middleware through From:
//
//	s := session.From(c)
//	if err := s.Set("user_id", 42); err != nil {
//		return response.Error(err)
//	}
//	userID, err := session.Get[int](s, "user_id")
package session
