package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	UUID         uuid.UUID
	Email        string
	PasswordHash string
	FirstName    *string
	LastName     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
