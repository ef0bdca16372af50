package bookmark

import (
	"context"
)

// Repository is the bookmark table. FetchBookmark is scoped by owner and
// returns (nil, nil) when nothing matches; UpdateBookmark and DeleteBookmark
// act on an id the caller already resolved through FetchBookmark.
type Repository interface {
	FetchBookmarks(ctx context.Context, userID UUID) (Bookmarks, error)
	FetchBookmark(ctx context.Context, userID, id UUID) (*Bookmark, error)
	CreateBookmark(ctx context.Context, userID UUID, d Draft) (*Bookmark, error)
	UpdateBookmark(ctx context.Context, p Patch) (*Bookmark, error)
	DeleteBookmark(ctx context.Context, id UUID) (*Bookmark, error)
}
