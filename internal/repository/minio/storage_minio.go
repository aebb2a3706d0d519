package minio

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/njprem/DogAtlas_APP_BackEnd/internal/repository/ports"
)

func NewClient(endpoint, key, secret string, useSSL bool) (*minio.Client, error) {
	return minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(key, secret, ""),
		Secure: useSSL,
	})
}

// Storage archives raw uploads in MinIO. publicURL, when set, is the base
// used to build links to stored objects.
type Storage struct {
	client    *minio.Client
	publicURL string
}

func NewStorage(client *minio.Client, publicURL string) *Storage {
	return &Storage{client: client, publicURL: strings.TrimRight(publicURL, "/")}
}

// EnsureBucket creates bucket when it does not exist yet.
func (s *Storage) EnsureBucket(ctx context.Context, bucket string) error {
	exists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", bucket, err)
	}
	if exists {
		return nil
	}
	if err := s.client.MakeBucket(ctx, bucket, minio.MakeBucketOptions{}); err != nil {
		return fmt.Errorf("create bucket %s: %w", bucket, err)
	}
	return nil
}

func (s *Storage) Upload(ctx context.Context, bucket, objectName, contentType string, reader io.Reader, size int64) (string, error) {
	_, err := s.client.PutObject(ctx, bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, objectName, err)
	}
	return s.ObjectURL(bucket, objectName), nil
}

func (s *Storage) Remove(ctx context.Context, bucket, objectName string) error {
	return s.client.RemoveObject(ctx, bucket, objectName, minio.RemoveObjectOptions{})
}

func (s *Storage) ObjectURL(bucket, objectName string) string {
	if s.publicURL == "" {
		return ""
	}
	return fmt.Sprintf("%s/%s/%s", s.publicURL, bucket, objectName)
}

var _ ports.ObjectStorage = (*Storage)(nil)
