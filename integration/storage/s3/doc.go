// Package s3 exposes an Amazon S3 (or S3-compatible) bucket as a read-only
// fs.FS, so assets stored in a bucket can be served with Router.StaticFiles
// or static.Handler.
//
//	assets, err := s3.New(ctx, s3.Config{
//		Bucket:         "my-app-assets",
//		Region:         "us-east-1",
//		Prefix:         "public",
//		Endpoint:       "http://localhost:9000", // MinIO
//		ForcePathStyle: true,
//	})
//	if err != nil {
//		return err
//	}
//	r.StaticFiles("/assets", assets, static.WithMaxAge(time.Hour))
//
// Open issues a HeadObject request; the object body is fetched on the first
// Read, so HEAD requests never download content. A name without an object
// that is a key prefix opens as a directory.
//
// Credentials come from Config when AccessKeyID and SecretKey are set and
// from the default AWS chain otherwise.
package s3
