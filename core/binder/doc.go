// Package binder decodes request data into Go values.
//
// Four binders cover the parts of a request a handler usually reads:
//
//	binder.JSON()          // application/json body
//	binder.Form()          // urlencoded and multipart bodies, including files
//	binder.Query()         // URL query string
//	binder.Path(extractor) // captured path parameters
//
// Struct fields are matched through the `json`, `form`, `file`, `query` and
// `path` tags. A tag of "-" skips the field. Query and path fields without a
// tag fall back to the lower-cased field name; form fields must be tagged.
//
// Scalars (string, bool, signed and unsigned integers, floats), pointers to
// them for optional values, and slices for repeated or comma separated values
// are supported. Uploaded files bind to *multipart.FileHeader or
// []*multipart.FileHeader, with client supplied file names reduced to their
// base name.
//
// String values lose NUL bytes, CR/LF and other control characters before
// they are stored.
//
// handler.Ctx wraps these binders in Parse, BindQuery and BindParams, which
// also translate binder failures into status errors:
//
//	type listRequest struct {
//		Team  string   `path:"team"`
//		Page  int      `query:"page"`
//		Tags  []string `query:"tag"`
//		Admin *bool    `query:"admin"`
//	}
//
//	func list(c *handler.Ctx) handler.Response {
//		var req listRequest
//		if err := c.BindParams(&req); err != nil {
//			return response.Error(err)
//		}
//		if err := c.BindQuery(&req); err != nil {
//			return response.Error(err)
//		}
//		...
//	}
package binder
