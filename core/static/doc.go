// Package static serves files from any fs.FS: embed.FS, os.DirFS, fstest.MapFS
// or a remote bucket adapter.
//
// Handler reads the file name from the route's tail parameter, so it is
// usually mounted through router.StaticFiles:
//
//	//go:embed public
//	var public embed.FS
//
//	r.StaticFiles("/assets", public, static.WithSubFS("public"), static.WithMaxAge(24*time.Hour))
//
// Directories are served through their index file; directory listings are
// never generated. Missing files produce a 404 through the application's
// error handler.
package static
