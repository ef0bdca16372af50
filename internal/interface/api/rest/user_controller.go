package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/interface/api/rest/dto/user"
	"bookmark-api/internal/interface/api/rest/middleware"
)

type UserController struct {
	userService ports.UserService
	logger      *zap.Logger
}

func NewUserController(
	r *gin.Engine,
	userService ports.UserService,
	logger *zap.Logger,
	tokens ports.TokenValidator,
) *UserController {
	uc := &UserController{
		userService: userService,
		logger:      logger,
	}

	r.GET(RouteUsersMe, middleware.AuthMiddleware(tokens), uc.GetMeHandler)

	return uc
}

func (uc *UserController) GetMeHandler(c *gin.Context) {
	id, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	u, err := uc.userService.FindUserByID(c.Request.Context(), id)
	if err != nil {
		writeError(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponseUser(*u))
}
