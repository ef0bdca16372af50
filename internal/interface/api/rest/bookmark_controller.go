package rest

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/domain/bookmark"
	dto "bookmark-api/internal/interface/api/rest/dto/bookmark"
	"bookmark-api/internal/interface/api/rest/middleware"
	"bookmark-api/internal/interface/api/rest/validator"
)

// room for the text fields and boundaries of a multipart body
const multipartOverhead = int64(1 << 20)

type BookmarkController struct {
	bookmarkService ports.BookmarkService
	logger          *zap.Logger
	maxUploadBytes  int64
}

func NewBookmarkController(
	r *gin.Engine,
	bookmarkService ports.BookmarkService,
	logger *zap.Logger,
	tokens ports.TokenValidator,
	maxUploadBytes int64,
) *BookmarkController {
	bc := &BookmarkController{
		bookmarkService: bookmarkService,
		logger:          logger,
		maxUploadBytes:  maxUploadBytes,
	}

	g := r.Group("", middleware.AuthMiddleware(tokens))
	g.GET(RouteBookmark, bc.ListBookmarksHandler)
	g.POST(RouteBookmark, bc.CreateBookmarkHandler)
	g.PUT(RouteBookmark, bc.UpdateBookmarkHandler)
	g.DELETE(RouteBookmarkID, bc.DeleteBookmarkHandler)

	return bc
}

func (bc *BookmarkController) ListBookmarksHandler(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	bms, err := bc.bookmarkService.List(c.Request.Context(), ownerID)
	if err != nil {
		writeError(c, bc.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseBookmarks(bms))
}

// CreateBookmarkHandler accepts a JSON body, or a multipart form whose optional
// "file" part is uploaded and attached.
func (bc *BookmarkController) CreateBookmarkHandler(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var (
		req  dto.CreateRequest
		file *bookmark.Attachment
	)
	if strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, bc.maxUploadBytes+multipartOverhead)
		if err := c.ShouldBind(&req); err != nil {
			writeFormError(c, err)
			return
		}

		att, closer, ok := bc.attachment(c)
		if !ok {
			return
		}
		if closer != nil {
			defer closer.Close()
		}
		file = att
	} else if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}

	if errs := validator.ValidateCreateBookmark(req); errs != nil {
		writeValidation(c, errs)
		return
	}

	b, err := bc.bookmarkService.Create(c.Request.Context(), ownerID, dto.ToDraft(req), file)
	if err != nil {
		writeError(c, bc.logger, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToResponseBookmark(*b))
}

// attachment reads the optional "file" part. ok is false when a response was written.
func (bc *BookmarkController) attachment(c *gin.Context) (*bookmark.Attachment, io.Closer, bool) {
	fh, err := c.FormFile("file")
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, true
	}
	if err != nil {
		writeFormError(c, err)
		return nil, nil, false
	}

	return validatedUpload(c, fh, bc.maxUploadBytes)
}

func (bc *BookmarkController) UpdateBookmarkHandler(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req dto.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "invalid json"},
		)
		return
	}
	if errs := validator.ValidateUpdateBookmark(req); errs != nil {
		writeValidation(c, errs)
		return
	}
	_, id := validator.IsUUID(req.ID)

	b, err := bc.bookmarkService.Update(c.Request.Context(), ownerID, dto.ToPatch(id, req))
	if err != nil {
		writeError(c, bc.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseBookmark(*b))
}

func (bc *BookmarkController) DeleteBookmarkHandler(c *gin.Context) {
	ownerID, ok := middleware.UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	ok, id := validator.IsUUID(c.Param("id"))
	if !ok {
		c.JSON(
			http.StatusBadRequest,
			gin.H{"error": "id must be a valid UUID"},
		)
		return
	}

	b, err := bc.bookmarkService.Delete(c.Request.Context(), ownerID, id)
	if err != nil {
		writeError(c, bc.logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToResponseBookmark(*b))
}

func validatedUpload(c *gin.Context, fh *multipart.FileHeader, maxBytes int64) (*bookmark.Attachment, io.Closer, bool) {
	att, closer, errs := validator.ValidateUpload(fh, maxBytes)
	if errs != nil {
		writeValidation(c, errs)
		return nil, nil, false
	}
	return att, closer, true
}

func writeFormError(c *gin.Context, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "request body too large"})
		return
	}
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   "invalid multipart form",
		"details": err.Error(),
	})
}
