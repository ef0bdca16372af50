package auth

import (
	"bookmark-api/internal/interface/api/rest/dto/user"
)

type (
	Credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	LoginResponse struct {
		User        user.User `json:"user"`
		AccessToken string    `json:"access_token"`
		TokenType   string    `json:"token_type"`
	}
)
