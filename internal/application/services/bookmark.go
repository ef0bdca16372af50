package services

import (
	"context"
	"errors"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/domain/bookmark"
	"bookmark-api/internal/domain/errs"
	bookmarkDB "bookmark-api/internal/infrastructure/db/postgres/bookmark"
)

const (
	MsgTitleRequired     = "title is required"
	MsgLinkWithFile      = "cannot store link when marking a file"
	MsgUploadWithFileKey = "cannot upload a file and reference a file key"
	MsgForeignFileKey    = "file key does not belong to the user"
	MsgFileKeyInUse      = "file key is already attached to another bookmark"
	MsgBookmarkNotFound  = "could not find the bookmark"

	signConcurrency = 16
)

type BookmarkService struct {
	bookmarkRepository bookmark.Repository
	uploads            ports.UploadService
	events             ports.EventPublisher
	logger             *zap.Logger
	mCounter           *prometheus.CounterVec
}

func NewBookmarkService(
	bookmarkRepository bookmark.Repository,
	uploads ports.UploadService,
	events ports.EventPublisher,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *BookmarkService {
	return &BookmarkService{
		bookmarkRepository: bookmarkRepository,
		uploads:            uploads,
		events:             events,
		logger:             logger,
		mCounter:           mCounter,
	}
}

var _ ports.BookmarkService = (*BookmarkService)(nil)

// List returns the owner's bookmarks in storage order. File-backed entries get
// a freshly signed URL as their link; signing runs concurrently.
func (bs *BookmarkService) List(ctx context.Context, ownerID bookmark.UUID) (bookmark.Bookmarks, error) {
	bms, err := bs.bookmarkRepository.FetchBookmarks(ctx, ownerID)
	if err != nil {
		bs.logger.Error("fetch bookmarks failed", zap.Error(err))
		return nil, errs.Internal("failed to fetch bookmarks", err)
	}

	out := make(bookmark.Bookmarks, len(bms))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(signConcurrency)
	for i, b := range bms {
		if !b.HasFile() {
			out[i] = b
			continue
		}
		g.Go(func() error {
			u, err := bs.uploads.SignedURL(gctx, *b.FileKey)
			if err != nil {
				return err
			}
			out[i] = b.WithLink(u)
			return nil
		})
	}
	if err = g.Wait(); err != nil {
		return nil, err
	}

	return out, nil
}

func (bs *BookmarkService) Create(
	ctx context.Context,
	ownerID bookmark.UUID,
	d bookmark.Draft,
	file *bookmark.Attachment,
) (*bookmark.Bookmark, error) {
	if err := bs.validateDraft(ownerID, d, file); err != nil {
		return nil, err
	}
	if !bookmark.Present(d.Link) {
		d.Link = nil
	}
	if !bookmark.Present(d.FileKey) {
		d.FileKey = nil
	}

	uploaded := false
	if file != nil {
		key, err := bs.uploads.UploadFile(ctx, ownerID, file)
		if err != nil {
			return nil, err
		}
		d.FileKey = &key
		uploaded = true
	}

	b, err := bs.bookmarkRepository.CreateBookmark(ctx, ownerID, d)
	if err != nil {
		if uploaded {
			bs.logger.Warn("stored file left without bookmark", zap.String("key", *d.FileKey))
			bs.publish(ctx, bookmark.NewEvent(bookmark.ActionFileOrphaned, ownerID, &bookmark.Bookmark{FileKey: d.FileKey}))
		}
		if errors.Is(err, bookmarkDB.ErrUnknownOwner) {
			return nil, errs.Auth("unauthorized")
		}
		if errors.Is(err, bookmarkDB.ErrFileKeyInUse) {
			return nil, errs.Validation(MsgFileKeyInUse)
		}
		bs.logger.Error("create bookmark failed", zap.Error(err))
		return nil, errs.Internal("failed to create bookmark", err)
	}

	bs.publish(ctx, bookmark.NewEvent(bookmark.ActionCreated, ownerID, b))
	bs.mCounter.WithLabelValues("bookmark_created_total").Inc()

	if !b.HasFile() {
		return b, nil
	}
	u, err := bs.uploads.SignedURL(ctx, *b.FileKey)
	if err != nil {
		return nil, err
	}

	return b.WithLink(u), nil
}

// validateDraft runs before any I/O so a rejected draft never uploads or writes.
func (bs *BookmarkService) validateDraft(ownerID bookmark.UUID, d bookmark.Draft, file *bookmark.Attachment) error {
	hasLink, hasKey := bookmark.Present(d.Link), bookmark.Present(d.FileKey)

	switch {
	case strings.TrimSpace(d.Title) == "":
		return errs.Validation(MsgTitleRequired)
	case hasLink && (file != nil || hasKey):
		return errs.Validation(MsgLinkWithFile)
	case file != nil && hasKey:
		return errs.Validation(MsgUploadWithFileKey)
	case hasKey && !bs.uploads.OwnsKey(ownerID, *d.FileKey):
		return errs.Validation(MsgForeignFileKey)
	}
	return nil
}

// Update applies only the fields present in p and returns the row as persisted.
func (bs *BookmarkService) Update(ctx context.Context, ownerID bookmark.UUID, p bookmark.Patch) (*bookmark.Bookmark, error) {
	if p.Title != nil && strings.TrimSpace(*p.Title) == "" {
		return nil, errs.Validation(MsgTitleRequired)
	}
	if !bookmark.Present(p.Link) {
		p.Link = nil
	}
	if !bookmark.Present(p.FileKey) {
		p.FileKey = nil
	}
	if p.Link != nil && p.FileKey != nil {
		return nil, errs.Validation(MsgLinkWithFile)
	}
	if p.FileKey != nil && !bs.uploads.OwnsKey(ownerID, *p.FileKey) {
		return nil, errs.Validation(MsgForeignFileKey)
	}

	prev, err := bs.ownedBookmark(ctx, ownerID, p.UUID)
	if err != nil {
		return nil, err
	}
	// a link cannot be cleared, so the stored row must not end up with both
	if (p.Link != nil && prev.HasFile()) || (p.FileKey != nil && bookmark.Present(prev.Link)) {
		return nil, errs.Validation(MsgLinkWithFile)
	}

	b, err := bs.bookmarkRepository.UpdateBookmark(ctx, p)
	if err != nil {
		if errors.Is(err, bookmarkDB.ErrFileKeyInUse) {
			return nil, errs.Validation(MsgFileKeyInUse)
		}
		bs.logger.Error("update bookmark failed", zap.Error(err))
		return nil, errs.Internal("failed to update bookmark", err)
	}
	if b == nil {
		return nil, errs.NotFound(MsgBookmarkNotFound)
	}

	bs.publish(ctx, bookmark.NewEvent(bookmark.ActionUpdated, ownerID, b))
	bs.mCounter.WithLabelValues("bookmark_updated_total").Inc()
	if prev.HasFile() && p.FileKey != nil && *prev.FileKey != *p.FileKey {
		bs.publish(ctx, bookmark.NewEvent(bookmark.ActionFileOrphaned, ownerID, &bookmark.Bookmark{FileKey: prev.FileKey}))
	}

	return b, nil
}

// Delete removes the row and returns it. Any stored file is left to the
// cleanup consumer, which acts on the deleted event.
func (bs *BookmarkService) Delete(ctx context.Context, ownerID, id bookmark.UUID) (*bookmark.Bookmark, error) {
	if _, err := bs.ownedBookmark(ctx, ownerID, id); err != nil {
		return nil, err
	}

	b, err := bs.bookmarkRepository.DeleteBookmark(ctx, id)
	if err != nil {
		bs.logger.Error("delete bookmark failed", zap.Error(err))
		return nil, errs.Internal("failed to delete bookmark", err)
	}
	if b == nil {
		return nil, errs.NotFound(MsgBookmarkNotFound)
	}

	bs.publish(ctx, bookmark.NewEvent(bookmark.ActionDeleted, ownerID, b))
	bs.mCounter.WithLabelValues("bookmark_deleted_total").Inc()

	return b, nil
}

// ownedBookmark is the ownership check: another user's bookmark is reported
// exactly like a missing one.
func (bs *BookmarkService) ownedBookmark(ctx context.Context, ownerID, id bookmark.UUID) (*bookmark.Bookmark, error) {
	b, err := bs.bookmarkRepository.FetchBookmark(ctx, ownerID, id)
	if err != nil {
		bs.logger.Error("fetch bookmark failed", zap.Error(err))
		return nil, errs.Internal("failed to fetch bookmark", err)
	}
	if b == nil {
		return nil, errs.NotFound(MsgBookmarkNotFound)
	}
	return b, nil
}

func (bs *BookmarkService) publish(ctx context.Context, e bookmark.Event) {
	if err := bs.events.Publish(ctx, e); err != nil {
		bs.logger.Warn("event not published",
			zap.String("event_action", string(e.Action)),
			zap.Error(err))
	}
}
