// Package response provides the conversions handlers use to describe their
// output.
//
// Every function returns a handler.Response, which the router applies to the
// buffered response writer after the handler returns:
//
//	func show(c *handler.Ctx) handler.Response {
//		user, err := users.Find(c, c.Param("id"))
//		return response.Result(response.JSON(user), err)
//	}
//
// Body conversions (String, Bytes, HTML, JSON, Template, Templ) leave the
// status alone, so a status chosen earlier in the chain is kept and the
// default is 200. Status, SendStatus, NoContent and Redirect exist to set
// one. Errors returned from a Response go to the application's error handler.
//
// A nil Response means the handler produced no output of its own.
package response
