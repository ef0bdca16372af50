package ports

import (
	"context"

	"bookmark-api/internal/domain/user"
	"bookmark-api/internal/infrastructure/jwt"
)

type Auth interface {
	Register(ctx context.Context, email, password string) (*user.User, error)
	Authenticate(ctx context.Context, email, password string) (*user.User, string, error)
}

type TokenValidator interface {
	ValidateToken(tokenStr string) (*jwt.Claims, error)
}
