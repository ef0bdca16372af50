package bookmark

import (
	"time"

	"github.com/google/uuid"
)

type (
	Bookmark struct {
		UUID        uuid.UUID `json:"id"`
		UserID      uuid.UUID `json:"user_id"`
		Title       string    `json:"title"`
		Link        *string   `json:"link"`
		Description *string   `json:"description"`
		FileKey     *string   `json:"file_key"`
		CreatedAt   time.Time `json:"created_at"`
		UpdatedAt   time.Time `json:"updated_at"`
	}
	Bookmarks []Bookmark
)
