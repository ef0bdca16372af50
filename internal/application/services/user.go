package services

import (
	"context"

	"go.uber.org/zap"

	"bookmark-api/internal/domain/errs"
	domain "bookmark-api/internal/domain/user"
)

type UserService struct {
	userRepository domain.Repository
	logger         *zap.Logger
}

func NewUserService(userRepository domain.Repository, logger *zap.Logger) *UserService {
	return &UserService{
		userRepository: userRepository,
		logger:         logger,
	}
}

// FindUserByID resolves the token subject; a subject whose row is gone is unauthorized.
func (us *UserService) FindUserByID(ctx context.Context, uuid domain.UUID) (*domain.User, error) {
	u, err := us.userRepository.FetchUserByID(ctx, uuid)
	if err != nil {
		us.logger.Error("fetch user failed", zap.Error(err))
		return nil, errs.Internal("failed to fetch user", err)
	}
	if u == nil {
		return nil, errs.Auth("unauthorized")
	}

	return u, nil
}
