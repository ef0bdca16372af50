package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/interface/api/rest/dto/auth"
	"bookmark-api/internal/interface/api/rest/dto/user"
	"bookmark-api/internal/interface/api/rest/validator"
)

type AuthController struct {
	logger      *zap.Logger
	authService ports.Auth
}

// NewAuthController registers signup and login behind the given middleware (the throttle).
func NewAuthController(
	r *gin.Engine,
	logger *zap.Logger,
	authService ports.Auth,
	mw ...gin.HandlerFunc,
) *AuthController {
	ac := &AuthController{
		logger:      logger,
		authService: authService,
	}

	g := r.Group("", mw...)
	g.POST(RouteSignup, ac.SignupHandler)
	g.POST(RouteLogin, ac.LoginHandler)

	return ac
}

func (ac *AuthController) SignupHandler(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}
	if errs := validator.ValidateSignup(req); errs != nil {
		writeValidation(c, errs)
		return
	}

	u, err := ac.authService.Register(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusCreated, user.ToResponseUser(*u))
}

func (ac *AuthController) LoginHandler(c *gin.Context) {
	var req auth.Credentials
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}
	if errs := validator.ValidateLogin(req); errs != nil {
		writeValidation(c, errs)
		return
	}

	u, token, err := ac.authService.Authenticate(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		writeAuthError(c, ac.logger, err)
		return
	}

	c.JSON(http.StatusOK, auth.LoginResponse{
		User:        user.ToResponseUser(*u),
		AccessToken: token,
		TokenType:   "Bearer",
	})
}
