package ports

import (
	"context"

	"bookmark-api/internal/domain/bookmark"
)

// BookmarkService takes the authenticated owner on every call; payloads never carry it.
type BookmarkService interface {
	List(ctx context.Context, ownerID bookmark.UUID) (bookmark.Bookmarks, error)
	Create(ctx context.Context, ownerID bookmark.UUID, d bookmark.Draft, file *bookmark.Attachment) (*bookmark.Bookmark, error)
	Update(ctx context.Context, ownerID bookmark.UUID, p bookmark.Patch) (*bookmark.Bookmark, error)
	Delete(ctx context.Context, ownerID, id bookmark.UUID) (*bookmark.Bookmark, error)
}
