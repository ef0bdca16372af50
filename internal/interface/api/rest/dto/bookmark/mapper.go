package bookmark

import (
	"github.com/google/uuid"

	"bookmark-api/internal/domain/bookmark"
)

func ToResponseBookmark(b bookmark.Bookmark) Bookmark {
	return Bookmark{
		UUID:        b.UUID,
		UserID:      b.UserID,
		Title:       b.Title,
		Link:        b.Link,
		Description: b.Description,
		FileKey:     b.FileKey,
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
}

// ToResponseBookmarks never returns nil so an empty list encodes as [].
func ToResponseBookmarks(bms bookmark.Bookmarks) Bookmarks {
	out := make(Bookmarks, len(bms))
	for idx, b := range bms {
		out[idx] = ToResponseBookmark(*b)
	}

	return out
}

func ToDraft(r CreateRequest) bookmark.Draft {
	return bookmark.Draft{
		Title:       r.Title,
		Link:        r.Link,
		Description: r.Description,
		FileKey:     r.FileKey,
	}
}

// ToPatch expects r.ID to have been validated.
func ToPatch(id uuid.UUID, r UpdateRequest) bookmark.Patch {
	return bookmark.Patch{
		UUID:        id,
		Title:       r.Title,
		Link:        r.Link,
		Description: r.Description,
		FileKey:     r.FileKey,
	}
}
