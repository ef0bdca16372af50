package user

import (
	"time"

	"github.com/google/uuid"
)

type (
	UUID = uuid.UUID
	User struct {
		UUID         UUID
		Email        string
		PasswordHash string
		FirstName    *string
		LastName     *string

		CreatedAt time.Time
		UpdatedAt time.Time
	}
	Users []*User
)
