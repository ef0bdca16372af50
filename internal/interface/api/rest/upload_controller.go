package rest

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/interface/api/rest/dto/upload"
	"bookmark-api/internal/interface/api/rest/middleware"
)

type UploadController struct {
	uploadService  ports.UploadService
	logger         *zap.Logger
	maxUploadBytes int64
}

func NewUploadController(
	r *gin.Engine,
	uploadService ports.UploadService,
	logger *zap.Logger,
	tokens ports.TokenValidator,
	maxUploadBytes int64,
) *UploadController {
	uc := &UploadController{
		uploadService:  uploadService,
		logger:         logger,
		maxUploadBytes: maxUploadBytes,
	}

	r.POST(RouteUploadFile, middleware.AuthMiddleware(tokens), uc.UploadFileHandler)

	return uc
}

// UploadFileHandler stores a file on its own; the returned key can be sent as
// file_key when creating a bookmark.
func (uc *UploadController) UploadFileHandler(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, uc.maxUploadBytes+multipartOverhead)
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		writeValidation(c, map[string]string{"file": "file is required"})
		return
	}
	if err != nil {
		writeFormError(c, err)
		return
	}

	att, closer, ok := validatedUpload(c, fh, uc.maxUploadBytes)
	if !ok {
		return
	}
	defer closer.Close()

	key, err := uc.uploadService.UploadFile(c.Request.Context(), ownerID, att)
	if err != nil {
		writeError(c, uc.logger, err)
		return
	}

	c.JSON(http.StatusCreated, upload.Response{Key: key})
}
