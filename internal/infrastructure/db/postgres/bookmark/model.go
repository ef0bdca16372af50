package bookmark

import (
	"time"

	"github.com/google/uuid"
)

type (
	Bookmark struct {
		UUID        uuid.UUID
		UserID      uuid.UUID
		Title       string
		Link        *string
		Description *string
		FileKey     *string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Bookmarks []*Bookmark
)
