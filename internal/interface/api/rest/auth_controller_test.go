package rest

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"bookmark-api/internal/domain/errs"
	domain "bookmark-api/internal/domain/user"
	"bookmark-api/internal/interface/api/rest/dto/auth"
)

func newAuthRouter(as *FakeAuthService, mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	NewAuthController(r, zap.NewNop(), as, mw...)
	return r
}

func registeredUser() *domain.User {
	return &domain.User{
		UUID:         uuid.New(),
		Email:        "ann@example.com",
		PasswordHash: "$2a$10$hash",
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
}

func TestAuthController_SignupHandler(t *testing.T) {
	tests := []struct {
		name       string
		body       any
		register   func(ctx context.Context, email, password string) (*domain.User, error)
		wantStatus int
		wantErr    string
		check      func(t *testing.T, resp map[string]any)
	}{
		{
			name:       "invalid JSON",
			body:       "{bad json",
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid json",
		},
		{
			name:       "validation error",
			body:       auth.Credentials{Email: "nope", Password: "short"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
			check: func(t *testing.T, resp map[string]any) {
				details := resp["details"].(map[string]any)
				assert.Contains(t, details, "email")
				assert.Contains(t, details, "password")
			},
		},
		{
			name: "email taken -> 403",
			body: auth.Credentials{Email: "ann@example.com", Password: "hunter22"},
			register: func(context.Context, string, string) (*domain.User, error) {
				return nil, errs.Conflict("credentials taken")
			},
			wantStatus: http.StatusForbidden,
			wantErr:    "credentials taken",
		},
		{
			name: "storage error -> 500",
			body: auth.Credentials{Email: "ann@example.com", Password: "hunter22"},
			register: func(context.Context, string, string) (*domain.User, error) {
				return nil, errs.Internal("failed to create user", errors.New("pq: boom"))
			},
			wantStatus: http.StatusInternalServerError,
			wantErr:    "something went wrong",
		},
		{
			name: "created without hash",
			body: auth.Credentials{Email: "ann@example.com", Password: "hunter22"},
			register: func(_ context.Context, email, password string) (*domain.User, error) {
				assert.Equal(t, "hunter22", password)
				return registeredUser(), nil
			},
			wantStatus: http.StatusCreated,
			check: func(t *testing.T, resp map[string]any) {
				assert.Equal(t, "ann@example.com", resp["email"])
				assert.NotEmpty(t, resp["id"])
				for k := range resp {
					assert.NotContains(t, k, "hash")
				}
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(&FakeAuthService{RegisterFunc: tt.register})

			rr := doReq(t, r, http.MethodPost, RouteSignup, tt.body, nil)
			require.Equal(t, tt.wantStatus, rr.Code)

			resp := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
			}
			if tt.check != nil {
				tt.check(t, resp)
			}
			assert.NotContains(t, rr.Body.String(), "$2a$10$hash")
		})
	}
}

func TestAuthController_LoginHandler(t *testing.T) {
	u := registeredUser()

	tests := []struct {
		name       string
		body       any
		auth       func(ctx context.Context, email, password string) (*domain.User, string, error)
		wantStatus int
		wantErr    string
	}{
		{
			name:       "invalid JSON",
			body:       "{bad json",
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid json",
		},
		{
			name:       "missing password",
			body:       auth.Credentials{Email: "ann@example.com"},
			wantStatus: http.StatusBadRequest,
			wantErr:    "invalid request body",
		},
		{
			name: "wrong credentials -> 403",
			body: auth.Credentials{Email: "ann@example.com", Password: "nope"},
			auth: func(context.Context, string, string) (*domain.User, string, error) {
				return nil, "", errs.Auth("credentials incorrect")
			},
			wantStatus: http.StatusForbidden,
			wantErr:    "credentials incorrect",
		},
		{
			name: "ok",
			body: auth.Credentials{Email: "ann@example.com", Password: "hunter22"},
			auth: func(context.Context, string, string) (*domain.User, string, error) {
				return u, "signed.jwt.token", nil
			},
			wantStatus: http.StatusOK,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			r := newAuthRouter(&FakeAuthService{AuthenticateFunc: tt.auth})

			rr := doReq(t, r, http.MethodPost, RouteLogin, tt.body, nil)
			require.Equal(t, tt.wantStatus, rr.Code)

			resp := decode(t, rr)
			if tt.wantErr != "" {
				assert.Equal(t, tt.wantErr, resp["error"])
				return
			}
			assert.Equal(t, "signed.jwt.token", resp["access_token"])
			assert.Equal(t, "Bearer", resp["token_type"])
			userResp := resp["user"].(map[string]any)
			assert.Equal(t, u.UUID.String(), userResp["id"])
			assert.NotContains(t, rr.Body.String(), u.PasswordHash)
		})
	}
}

func TestAuthController_MiddlewareApplies(t *testing.T) {
	blocked := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
	}
	r := newAuthRouter(&FakeAuthService{}, blocked)

	for _, path := range []string{RouteSignup, RouteLogin} {
		rr := doReq(t, r, http.MethodPost, path, auth.Credentials{}, nil)
		assert.Equal(t, http.StatusTooManyRequests, rr.Code, path)
	}
}
