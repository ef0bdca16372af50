package bookmark

import (
	"time"

	"github.com/google/uuid"
)

type Action string

const (
	ActionCreated      Action = "bookmark.created"
	ActionUpdated      Action = "bookmark.updated"
	ActionDeleted      Action = "bookmark.deleted"
	ActionFileOrphaned Action = "file.orphaned"
)

// Actions lists every routing key the event exchange carries.
var Actions = []Action{ActionCreated, ActionUpdated, ActionDeleted, ActionFileOrphaned}

type Event struct {
	ID         uuid.UUID `json:"event_id"`
	TS         time.Time `json:"time_stamp"`
	Action     Action    `json:"event_action"`
	UserID     string    `json:"user_id"`
	BookmarkID string    `json:"bookmark_id,omitempty"`
	FileKey    string    `json:"file_key,omitempty"`
}

func NewEvent(action Action, userID UUID, b *Bookmark) Event {
	e := Event{
		ID:     uuid.New(),
		TS:     time.Now().UTC(),
		Action: action,
		UserID: userID.String(),
	}
	if b != nil {
		if b.UUID != uuid.Nil {
			e.BookmarkID = b.UUID.String()
		}
		if b.FileKey != nil {
			e.FileKey = *b.FileKey
		}
	}
	return e
}
