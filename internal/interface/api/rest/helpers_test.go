package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"bookmark-api/internal/domain/bookmark"
	domain "bookmark-api/internal/domain/user"
	jwtSvc "bookmark-api/internal/infrastructure/jwt"
)

const testSecret = "test-secret"

func init() { gin.SetMode(gin.TestMode) }

type FakeAuthService struct {
	RegisterFunc     func(ctx context.Context, email, password string) (*domain.User, error)
	AuthenticateFunc func(ctx context.Context, email, password string) (*domain.User, string, error)
}

func (f *FakeAuthService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	if f.RegisterFunc == nil {
		return nil, errors.New("not used")
	}
	return f.RegisterFunc(ctx, email, password)
}
func (f *FakeAuthService) Authenticate(ctx context.Context, email, password string) (*domain.User, string, error) {
	if f.AuthenticateFunc == nil {
		return nil, "", errors.New("not used")
	}
	return f.AuthenticateFunc(ctx, email, password)
}

type FakeUserService struct {
	FindUserByIDFunc func(ctx context.Context, id domain.UUID) (*domain.User, error)
}

func (f *FakeUserService) FindUserByID(ctx context.Context, id domain.UUID) (*domain.User, error) {
	if f.FindUserByIDFunc == nil {
		return nil, errors.New("not used")
	}
	return f.FindUserByIDFunc(ctx, id)
}

type FakeBookmarkService struct {
	ListFunc   func(ctx context.Context, ownerID bookmark.UUID) (bookmark.Bookmarks, error)
	CreateFunc func(ctx context.Context, ownerID bookmark.UUID, d bookmark.Draft, file *bookmark.Attachment) (*bookmark.Bookmark, error)
	UpdateFunc func(ctx context.Context, ownerID bookmark.UUID, p bookmark.Patch) (*bookmark.Bookmark, error)
	DeleteFunc func(ctx context.Context, ownerID, id bookmark.UUID) (*bookmark.Bookmark, error)
}

func (f *FakeBookmarkService) List(ctx context.Context, ownerID bookmark.UUID) (bookmark.Bookmarks, error) {
	if f.ListFunc == nil {
		return nil, errors.New("not used")
	}
	return f.ListFunc(ctx, ownerID)
}
func (f *FakeBookmarkService) Create(ctx context.Context, ownerID bookmark.UUID, d bookmark.Draft, file *bookmark.Attachment) (*bookmark.Bookmark, error) {
	if f.CreateFunc == nil {
		return nil, errors.New("not used")
	}
	return f.CreateFunc(ctx, ownerID, d, file)
}
func (f *FakeBookmarkService) Update(ctx context.Context, ownerID bookmark.UUID, p bookmark.Patch) (*bookmark.Bookmark, error) {
	if f.UpdateFunc == nil {
		return nil, errors.New("not used")
	}
	return f.UpdateFunc(ctx, ownerID, p)
}
func (f *FakeBookmarkService) Delete(ctx context.Context, ownerID, id bookmark.UUID) (*bookmark.Bookmark, error) {
	if f.DeleteFunc == nil {
		return nil, errors.New("not used")
	}
	return f.DeleteFunc(ctx, ownerID, id)
}

type FakeUploadService struct {
	UploadFileFunc func(ctx context.Context, ownerID bookmark.UUID, file *bookmark.Attachment) (string, error)
}

func (f *FakeUploadService) UploadFile(ctx context.Context, ownerID bookmark.UUID, file *bookmark.Attachment) (string, error) {
	if f.UploadFileFunc == nil {
		return "", errors.New("not used")
	}
	return f.UploadFileFunc(ctx, ownerID, file)
}
func (f *FakeUploadService) SignedURL(context.Context, string) (string, error) {
	return "", errors.New("not used")
}
func (f *FakeUploadService) RemoveFile(context.Context, string) error { return errors.New("not used") }
func (f *FakeUploadService) OwnsKey(bookmark.UUID, string) bool     { return false }

func newJWT() *jwtSvc.Service { return jwtSvc.New(testSecret, "bookmark-app") }

func bearer(t *testing.T, userID uuid.UUID) map[string]string {
	t.Helper()
	tok, err := newJWT().GenerateJWT(userID.String(), "ann@example.com", time.Hour)
	require.NoError(t, err)
	return map[string]string{"Authorization": "Bearer " + tok}
}

func doReq(t *testing.T, r *gin.Engine, method, path string, body any, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var buf *bytes.Reader
	switch v := body.(type) {
	case nil:
		buf = bytes.NewReader(nil)
	case string:
		buf = bytes.NewReader([]byte(v))
	default:
		b, err := json.Marshal(v)
		require.NoError(t, err)
		buf = bytes.NewReader(b)
	}

	req, err := http.NewRequest(method, path, buf)
	require.NoError(t, err)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func doMultipartReq(t *testing.T, r *gin.Engine, method, path string, fields map[string]string, fileField, fileName string, fileContent []byte, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)

	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}

	if fileField != "" && fileName != "" && fileContent != nil {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, _ = fw.Write(fileContent)
	}

	require.NoError(t, w.Close())

	req, err := http.NewRequest(method, path, &b)
	require.NoError(t, err)
	req.Header.Set("Content-Type", w.FormDataContentType())
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

func decode(t *testing.T, rr *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp
}
