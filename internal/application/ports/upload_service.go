package ports

import (
	"context"

	"bookmark-api/internal/domain/bookmark"
)

type UploadService interface {
	UploadFile(ctx context.Context, ownerID bookmark.UUID, file *bookmark.Attachment) (string, error)
	SignedURL(ctx context.Context, key string) (string, error)
	RemoveFile(ctx context.Context, key string) error
	OwnsKey(ownerID bookmark.UUID, key string) bool
}
