package s3

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// ErrInvalidConfig is returned by New when the bucket or region is missing.
var ErrInvalidConfig = errors.New("s3: bucket and region are required")

// classifyError maps S3 errors onto the fs error values static handlers
// understand, keeping the original error in the chain.
func classifyError(err error, op, name string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &fs.PathError{Op: op, Path: name, Err: err}
	}

	var nsk *types.NoSuchKey
	var nf *types.NotFound
	if errors.As(err, &nsk) || errors.As(err, &nf) {
		return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return &fs.PathError{Op: op, Path: name, Err: fs.ErrNotExist}
		case "AccessDenied", "Forbidden":
			return &fs.PathError{Op: op, Path: name, Err: errors.Join(fs.ErrPermission, err)}
		default:
			return &fs.PathError{Op: op, Path: name, Err: fmt.Errorf("code %s: %w", apiErr.ErrorCode(), err)}
		}
	}
	return &fs.PathError{Op: op, Path: name, Err: err}
}
