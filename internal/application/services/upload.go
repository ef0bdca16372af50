package services

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"bookmark-api/internal/application/ports"
	"bookmark-api/internal/domain/bookmark"
	"bookmark-api/internal/domain/errs"
)

type UploadService struct {
	s3       ports.S3Client
	logger   *zap.Logger
	mCounter *prometheus.CounterVec
	now      func() time.Time
}

func NewUploadService(
	s3 ports.S3Client,
	logger *zap.Logger,
	mCounter *prometheus.CounterVec,
) *UploadService {
	return &UploadService{
		s3:       s3,
		logger:   logger,
		mCounter: mCounter,
		now:      time.Now,
	}
}

var _ ports.UploadService = (*UploadService)(nil)

// UploadFile stores an attachment that was already validated at the API boundary.
func (us *UploadService) UploadFile(ctx context.Context, ownerID bookmark.UUID, file *bookmark.Attachment) (string, error) {
	key := storageKey(us.now(), ownerID, file.FileName, file.ContentType)

	if err := us.s3.PutObject(ctx, key, file.Content, file.Size, file.ContentType); err != nil {
		us.logger.Error("upload to object store failed",
			zap.String("bucket", us.s3.GetBucket()),
			zap.String("key", key),
			zap.Error(err))
		return "", errs.Internal("failed to upload file", err)
	}

	us.mCounter.WithLabelValues("file_uploaded_total").Inc()

	return key, nil
}

func (us *UploadService) SignedURL(ctx context.Context, key string) (string, error) {
	u, err := us.s3.PresignedURL(ctx, key)
	if err != nil {
		us.logger.Error("presign failed", zap.String("key", key), zap.Error(err))
		return "", errs.Internal("failed to resolve file url", err)
	}
	return u, nil
}

func (us *UploadService) RemoveFile(ctx context.Context, key string) error {
	if err := us.s3.RemoveObject(ctx, key); err != nil {
		return errs.Internal("failed to remove file", err)
	}

	us.mCounter.WithLabelValues("file_removed_total").Inc()

	return nil
}

func (us *UploadService) OwnsKey(ownerID bookmark.UUID, key string) bool {
	return keyOwnedBy(ownerID, key)
}
