package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"bookmark-api/internal/domain/bookmark"
	"bookmark-api/internal/domain/user"
	bookmarkDB "bookmark-api/internal/infrastructure/db/postgres/bookmark"
	userDB "bookmark-api/internal/infrastructure/db/postgres/user"
	"bookmark-api/internal/infrastructure/metrics"
)

func newCounter() *prometheus.CounterVec { return metrics.NewCounter(prometheus.NewRegistry()) }

// ---- users ----

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*user.User

	FetchUserByIDFunc    func(ctx context.Context, id user.UUID) (*user.User, error)
	FetchUserByEmailFunc func(ctx context.Context, email string) (*user.User, error)
}

func newMemUserRepo() *memUserRepo { return &memUserRepo{users: map[string]*user.User{}} }

func (r *memUserRepo) FetchUserByID(ctx context.Context, id user.UUID) (*user.User, error) {
	if r.FetchUserByIDFunc != nil {
		return r.FetchUserByIDFunc(ctx, id)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.UUID == id {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) FetchUserByEmail(ctx context.Context, email string) (*user.User, error) {
	if r.FetchUserByEmailFunc != nil {
		return r.FetchUserByEmailFunc(ctx, email)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[email]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, nil
}

func (r *memUserRepo) CreateUser(_ context.Context, email, passwordHash string) (*user.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.users[email]; ok {
		return nil, userDB.ErrEmailAlreadyExists
	}
	now := time.Now().UTC()
	u := &user.User{UUID: uuid.New(), Email: email, PasswordHash: passwordHash, CreatedAt: now, UpdatedAt: now}
	r.users[email] = u
	cp := *u
	return &cp, nil
}

// ---- bookmarks ----

type memBookmarkRepo struct {
	mu      sync.Mutex
	rows    []*bookmark.Bookmark
	creates int

	FetchBookmarksFunc func(ctx context.Context, userID bookmark.UUID) (bookmark.Bookmarks, error)
	CreateBookmarkFunc func(ctx context.Context, userID bookmark.UUID, d bookmark.Draft) (*bookmark.Bookmark, error)
}

func (r *memBookmarkRepo) FetchBookmarks(ctx context.Context, userID bookmark.UUID) (bookmark.Bookmarks, error) {
	if r.FetchBookmarksFunc != nil {
		return r.FetchBookmarksFunc(ctx, userID)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(bookmark.Bookmarks, 0)
	for _, b := range r.rows {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (r *memBookmarkRepo) FetchBookmark(_ context.Context, userID, id bookmark.UUID) (*bookmark.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.rows {
		if b.UUID == id && b.UserID == userID {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memBookmarkRepo) CreateBookmark(ctx context.Context, userID bookmark.UUID, d bookmark.Draft) (*bookmark.Bookmark, error) {
	r.mu.Lock()
	r.creates++
	r.mu.Unlock()
	if r.CreateBookmarkFunc != nil {
		return r.CreateBookmarkFunc(ctx, userID, d)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keyTaken(d.FileKey, uuid.Nil) {
		return nil, bookmarkDB.ErrFileKeyInUse
	}
	now := time.Now().UTC()
	b := &bookmark.Bookmark{
		UUID:        uuid.New(),
		UserID:      userID,
		Title:       d.Title,
		Link:        d.Link,
		Description: d.Description,
		FileKey:     d.FileKey,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	r.rows = append(r.rows, b)
	cp := *b
	return &cp, nil
}

func (r *memBookmarkRepo) UpdateBookmark(_ context.Context, p bookmark.Patch) (*bookmark.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.keyTaken(p.FileKey, p.UUID) {
		return nil, bookmarkDB.ErrFileKeyInUse
	}
	for _, b := range r.rows {
		if b.UUID != p.UUID {
			continue
		}
		if p.Title != nil {
			b.Title = *p.Title
		}
		if p.Link != nil {
			b.Link = p.Link
		}
		if p.Description != nil {
			b.Description = p.Description
		}
		if p.FileKey != nil {
			b.FileKey = p.FileKey
		}
		b.UpdatedAt = time.Now().UTC()
		cp := *b
		return &cp, nil
	}
	return nil, nil
}

func (r *memBookmarkRepo) DeleteBookmark(_ context.Context, id bookmark.UUID) (*bookmark.Bookmark, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, b := range r.rows {
		if b.UUID == id {
			r.rows = append(r.rows[:i], r.rows[i+1:]...)
			return b, nil
		}
	}
	return nil, nil
}

// keyTaken mirrors the unique index on file_key. Callers hold r.mu.
func (r *memBookmarkRepo) keyTaken(key *string, self bookmark.UUID) bool {
	if key == nil {
		return false
	}
	for _, b := range r.rows {
		if b.UUID != self && b.FileKey != nil && *b.FileKey == *key {
			return true
		}
	}
	return false
}

func (r *memBookmarkRepo) row(id bookmark.UUID) *bookmark.Bookmark {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, b := range r.rows {
		if b.UUID == id {
			cp := *b
			return &cp
		}
	}
	return nil
}

// ---- object store ----

type memS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	signed  int
	removed []string

	PutObjectFunc    func(ctx context.Context, key string) error
	PresignedURLFunc func(ctx context.Context, key string) (string, error)
}

func newMemS3() *memS3 { return &memS3{objects: map[string][]byte{}} }

func (s *memS3) PutObject(ctx context.Context, key string, body io.Reader, _ int64, _ string) error {
	if s.PutObjectFunc != nil {
		if err := s.PutObjectFunc(ctx, key); err != nil {
			return err
		}
	}
	b, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = b
	return nil
}

// PresignedURL returns a different URL on every call.
func (s *memS3) PresignedURL(ctx context.Context, key string) (string, error) {
	if s.PresignedURLFunc != nil {
		return s.PresignedURLFunc(ctx, key)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.objects[key]; !ok {
		return "", errors.New("no such key")
	}
	s.signed++
	return fmt.Sprintf("https://store.local/bookmarks/%s?sig=%d", key, s.signed), nil
}

func (s *memS3) RemoveObject(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.removed = append(s.removed, key)
	return nil
}

func (s *memS3) GetBucket() string { return "bookmarks" }

func (s *memS3) puts() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.objects)
}

// ---- events ----

type recordingPublisher struct {
	mu     sync.Mutex
	events []bookmark.Event
	err    error
}

func (p *recordingPublisher) Publish(_ context.Context, e bookmark.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) actions() []bookmark.Action {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]bookmark.Action, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Action)
	}
	return out
}

// ---- fixture ----

type bookmarkFixture struct {
	svc     *BookmarkService
	repo    *memBookmarkRepo
	s3      *memS3
	uploads *UploadService
	events  *recordingPublisher
	counter *prometheus.CounterVec
}

func newBookmarkFixture() *bookmarkFixture {
	f := &bookmarkFixture{
		repo:    &memBookmarkRepo{},
		s3:      newMemS3(),
		events:  &recordingPublisher{},
		counter: newCounter(),
	}
	f.uploads = NewUploadService(f.s3, zap.NewNop(), f.counter)
	f.svc = NewBookmarkService(f.repo, f.uploads, f.events, zap.NewNop(), f.counter)
	return f
}

func attachment(name, content string) *bookmark.Attachment {
	return &bookmark.Attachment{
		FileName:    name,
		ContentType: "application/pdf",
		Size:        int64(len(content)),
		Content:     bytes.NewBufferString(content),
	}
}

func strPtr(s string) *string { return &s }
