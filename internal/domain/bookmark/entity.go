package bookmark

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

type (
	UUID = uuid.UUID

	// Bookmark is a persisted row. A file-backed bookmark carries FileKey and
	// no persisted Link; views returned by list and create carry a freshly
	// signed Link in its place.
	Bookmark struct {
		UUID        UUID
		UserID      UUID
		Title       string
		Link        *string
		Description *string
		FileKey     *string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Bookmarks []*Bookmark

	// Draft is the create payload. The owner never comes from here.
	Draft struct {
		Title       string
		Link        *string
		Description *string
		FileKey     *string
	}

	// Patch is a partial update; nil fields are left untouched.
	Patch struct {
		UUID        UUID
		Title       *string
		Link        *string
		Description *string
		FileKey     *string
	}

	// Attachment is an uploaded file validated at the API boundary.
	Attachment struct {
		FileName    string
		ContentType string
		Size        int64
		Content     io.Reader
	}
)

// WithLink returns a copy of b whose Link is the given URL.
func (b Bookmark) WithLink(url string) *Bookmark {
	b.Link = &url
	return &b
}

// HasFile reports whether the bookmark references a stored object.
func (b Bookmark) HasFile() bool { return Present(b.FileKey) }

// Present reports whether an optional string field carries a non-blank value.
func Present(s *string) bool { return s != nil && strings.TrimSpace(*s) != "" }
