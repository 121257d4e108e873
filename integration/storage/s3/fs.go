package s3

import (
	"context"
	"io"
	"io/fs"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	s3aws "github.com/aws/aws-sdk-go-v2/service/s3"
)

// Client is the subset of *s3.Client used by FS.
type Client interface {
	HeadObject(ctx context.Context, params *s3aws.HeadObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3aws.GetObjectInput, optFns ...func(*s3aws.Options)) (*s3aws.GetObjectOutput, error)
	ListObjectsV2(ctx context.Context, params *s3aws.ListObjectsV2Input, optFns ...func(*s3aws.Options)) (*s3aws.ListObjectsV2Output, error)
}

// Config holds the bucket settings.
type Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"` // MinIO, Wasabi, Spaces...
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"`
	// Prefix is the key prefix treated as the file system root.
	Prefix string `env:"S3_PREFIX"`
}

// Option configures New.
type Option func(*options)

type options struct {
	client        Client
	timeout       time.Duration
	configOptions []func(*config.LoadOptions) error
}

// WithClient uses client instead of building one from Config.
func WithClient(client Client) Option {
	return func(o *options) { o.client = client }
}

// WithTimeout bounds every S3 request (default: 30s).
func WithTimeout(d time.Duration) Option {
	return func(o *options) { o.timeout = d }
}

// WithConfigOption adds an AWS config loading option.
func WithConfigOption(opt func(*config.LoadOptions) error) Option {
	return func(o *options) { o.configOptions = append(o.configOptions, opt) }
}

// FS is a read-only fs.FS backed by a bucket. Safe for concurrent use.
type FS struct {
	client  Client
	bucket  string
	prefix  string
	timeout time.Duration
}

var (
	_ fs.FS     = (*FS)(nil)
	_ fs.StatFS = (*FS)(nil)
)

// New creates a file system over cfg.Bucket.
func New(ctx context.Context, cfg Config, opts ...Option) (*FS, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, ErrInvalidConfig
	}
	o := &options{timeout: 30 * time.Second}
	for _, opt := range opts {
		opt(o)
	}

	client := o.client
	if client == nil {
		loadOpts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loadOpts = append(loadOpts, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, ""),
			))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, append(loadOpts, o.configOptions...)...)
		if err != nil {
			return nil, err
		}
		client = s3aws.NewFromConfig(awsCfg, func(so *s3aws.Options) {
			if cfg.Endpoint != "" {
				so.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			so.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &FS{
		client:  client,
		bucket:  cfg.Bucket,
		prefix:  strings.Trim(cfg.Prefix, "/"),
		timeout: o.timeout,
	}, nil
}

func (f *FS) key(name string) string {
	if name == "." {
		return f.prefix
	}
	if f.prefix == "" {
		return name
	}
	return f.prefix + "/" + name
}

func (f *FS) ctx() (context.Context, context.CancelFunc) {
	if f.timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), f.timeout)
}

// Open opens the object stored under name, or a directory when name is only
// a key prefix.
func (f *FS) Open(name string) (fs.File, error) {
	info, err := f.Stat(name)
	if err != nil {
		return nil, err
	}
	if info.IsDir() {
		return &dir{info: info}, nil
	}
	return &file{fs: f, name: name, info: info}, nil
}

// Stat returns object metadata without fetching the body.
func (f *FS) Stat(name string) (fs.FileInfo, error) {
	if !fs.ValidPath(name) {
		return nil, &fs.PathError{Op: "stat", Path: name, Err: fs.ErrInvalid}
	}
	if name == "." {
		return &fileInfo{name: ".", dir: true}, nil
	}

	ctx, cancel := f.ctx()
	defer cancel()

	out, err := f.client.HeadObject(ctx, &s3aws.HeadObjectInput{
		Bucket: aws.String(f.bucket),
		Key:    aws.String(f.key(name)),
	})
	if err == nil {
		return &fileInfo{
			name:    path.Base(name),
			size:    aws.ToInt64(out.ContentLength),
			modTime: aws.ToTime(out.LastModified),
		}, nil
	}

	err = classifyError(err, "stat", name)
	if !isNotExist(err) {
		return nil, err
	}

	list, lerr := f.client.ListObjectsV2(ctx, &s3aws.ListObjectsV2Input{
		Bucket:  aws.String(f.bucket),
		Prefix:  aws.String(f.key(name) + "/"),
		MaxKeys: aws.Int32(1),
	})
	if lerr != nil {
		return nil, classifyError(lerr, "stat", name)
	}
	if aws.ToInt32(list.KeyCount) == 0 && len(list.Contents) == 0 {
		return nil, err
	}
	return &fileInfo{name: path.Base(name), dir: true}, nil
}

func isNotExist(err error) bool {
	pe, ok := err.(*fs.PathError)
	return ok && pe.Err == fs.ErrNotExist
}

type file struct {
	fs     *FS
	name   string
	info   fs.FileInfo
	body   io.ReadCloser
	cancel context.CancelFunc
}

func (f *file) Stat() (fs.FileInfo, error) { return f.info, nil }

func (f *file) Read(p []byte) (int, error) {
	if f.body == nil {
		ctx, cancel := f.fs.ctx()
		out, err := f.fs.client.GetObject(ctx, &s3aws.GetObjectInput{
			Bucket: aws.String(f.fs.bucket),
			Key:    aws.String(f.fs.key(f.name)),
		})
		if err != nil {
			cancel()
			return 0, classifyError(err, "read", f.name)
		}
		f.body, f.cancel = out.Body, cancel
	}
	return f.body.Read(p)
}

func (f *file) Close() error {
	if f.body == nil {
		return nil
	}
	defer f.cancel()
	return f.body.Close()
}

type dir struct {
	info fs.FileInfo
}

func (d *dir) Stat() (fs.FileInfo, error) { return d.info, nil }

func (d *dir) Read([]byte) (int, error) {
	return 0, &fs.PathError{Op: "read", Path: d.info.Name(), Err: fs.ErrInvalid}
}

func (d *dir) Close() error { return nil }

type fileInfo struct {
	name    string
	size    int64
	modTime time.Time
	dir     bool
}

func (i *fileInfo) Name() string       { return i.name }
func (i *fileInfo) Size() int64        { return i.size }
func (i *fileInfo) ModTime() time.Time { return i.modTime }
func (i *fileInfo) IsDir() bool        { return i.dir }
func (i *fileInfo) Sys() any           { return nil }

func (i *fileInfo) Mode() fs.FileMode {
	if i.dir {
		return fs.ModeDir | 0o555
	}
	return 0o444
}
