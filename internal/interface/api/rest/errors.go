package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookmark-api/internal/domain/errs"
)

const msgInternal = "something went wrong"

// writeError maps the error taxonomy onto a status and a stable message.
// Authentication failures answer 401; see writeAuthError for login and signup.
func writeError(c *gin.Context, logger *zap.Logger, err error) {
	respondError(c, logger, err, http.StatusUnauthorized)
}

// writeAuthError answers credential failures with 403.
func writeAuthError(c *gin.Context, logger *zap.Logger, err error) {
	respondError(c, logger, err, http.StatusForbidden)
}

func respondError(c *gin.Context, logger *zap.Logger, err error, authStatus int) {
	status, msg := http.StatusInternalServerError, msgInternal
	switch {
	case errors.Is(err, errs.ErrValidation):
		status, msg = http.StatusBadRequest, errs.Message(err, "invalid request")
	case errors.Is(err, errs.ErrAuth):
		status, msg = authStatus, errs.Message(err, "unauthorized")
	case errors.Is(err, errs.ErrNotFound):
		status, msg = http.StatusNotFound, errs.Message(err, "not found")
	case errors.Is(err, errs.ErrConflict):
		status, msg = http.StatusForbidden, errs.Message(err, "conflict")
	}

	if status == http.StatusInternalServerError {
		logger.Error("request failed",
			zap.String("route", c.FullPath()),
			zap.Error(err))
	}

	c.JSON(status, gin.H{"error": msg})
}

func writeValidation(c *gin.Context, details map[string]string) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid request body",
		"details": details,
	})
}
