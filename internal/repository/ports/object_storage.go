package ports

import (
	"context"
	"io"
)

// ObjectStorage keeps raw uploads. Upload returns the public URL of the
// object (empty when no public base is configured).
type ObjectStorage interface {
	Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error)
	Remove(ctx context.Context, bucket, objectName string) error
}
