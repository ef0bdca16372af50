package user

import (
	"time"

	"github.com/google/uuid"
)

// User is the public view of an account; it has no password hash field.
type User struct {
	UUID      uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FirstName *string   `json:"first_name"`
	LastName  *string   `json:"last_name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
