package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/domain/errs"
	"bookmark-api/internal/domain/user"
	userDB "bookmark-api/internal/infrastructure/db/postgres/user"
	"bookmark-api/internal/infrastructure/jwt"
)

const (
	MsgCredentialsTaken     = "credentials taken"
	MsgCredentialsIncorrect = "credentials incorrect"
)

type AuthService struct {
	userRepository user.Repository
	jwtService     *jwt.Service
	tokenTTL       time.Duration
	bcryptCost     int
	logger         *zap.Logger
	mCounter       *prometheus.CounterVec
}

func NewAuthService(
	userRepository user.Repository,
	jwtService *jwt.Service,
	tokenTTL time.Duration,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *AuthService {
	return &AuthService{
		userRepository: userRepository,
		jwtService:     jwtService,
		tokenTTL:       tokenTTL,
		bcryptCost:     bcrypt.DefaultCost,
		logger:         logger,
		mCounter:       mCounter,
	}
}

var _ ports.Auth = (*AuthService)(nil)

func (as *AuthService) Register(ctx context.Context, email, password string) (*user.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), as.bcryptCost)
	if err != nil {
		return nil, errs.Internal("failed to hash password", err)
	}

	u, err := as.userRepository.CreateUser(ctx, normalizeEmail(email), string(hash))
	if err != nil {
		if errors.Is(err, userDB.ErrEmailAlreadyExists) {
			return nil, errs.Conflict(MsgCredentialsTaken)
		}
		as.logger.Error("create user failed", zap.Error(err))
		return nil, errs.Internal("failed to create user", err)
	}

	as.mCounter.WithLabelValues("user_signup_total").Inc()

	return u, nil
}

// Authenticate reports an unknown email and a wrong password with the same error.
func (as *AuthService) Authenticate(ctx context.Context, email, password string) (*user.User, string, error) {
	u, err := as.userRepository.FetchUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		as.logger.Error("fetch user by email failed", zap.Error(err))
		return nil, "", errs.Internal("failed to fetch user", err)
	}
	if u == nil || bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) != nil {
		as.mCounter.WithLabelValues("user_login_failed_total").Inc()
		return nil, "", errs.Auth(MsgCredentialsIncorrect)
	}

	token, err := as.jwtService.GenerateJWT(u.UUID.String(), u.Email, as.tokenTTL)
	if err != nil {
		return nil, "", errs.Internal("failed to generate token", err)
	}

	as.mCounter.WithLabelValues("user_login_total").Inc()

	return u, token, nil
}

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }
