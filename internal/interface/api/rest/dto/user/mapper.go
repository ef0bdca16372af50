package user

import (
	"bookmark-api/internal/domain/user"
)

func ToResponseUser(uDomain user.User) User {
	return User{
		UUID:      uDomain.UUID,
		Email:     uDomain.Email,
		FirstName: uDomain.FirstName,
		LastName:  uDomain.LastName,
		CreatedAt: uDomain.CreatedAt,
		UpdatedAt: uDomain.UpdatedAt,
	}
}
