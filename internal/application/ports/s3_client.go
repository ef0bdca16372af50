package ports

import (
	"context"
	"io"
)

type S3Client interface {
	PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	PresignedURL(ctx context.Context, key string) (string, error)
	RemoveObject(ctx context.Context, key string) error
	GetBucket() string
}
