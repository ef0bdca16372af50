package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.uber.org/zap"

	"bookmark-api/config"
)

type Client struct {
	logger     *zap.Logger
	mc         *minio.Client
	region     string
	bucket     string
	presignTTL time.Duration
}

// New connects to the S3-compatible store and makes sure the upload bucket exists.
func New(
	ctx context.Context,
	logger *zap.Logger,
	cfg config.S3,
) (*Client, error) {
	c, err := newClient(logger, cfg)
	if err != nil {
		return nil, err
	}
	if err = c.ensureBucket(ctx); err != nil {
		return nil, err
	}

	logger.Info("s3 connected successfully",
		zap.String("endpoint", cfg.Endpoint),
		zap.String("bucket", cfg.BucketUploads))

	return c, nil
}

func newClient(logger *zap.Logger, cfg config.S3) (*Client, error) {
	if cfg.Endpoint == "" || cfg.BucketUploads == "" {
		return nil, errors.New("invalid S3 config: endpoint and bucket are required")
	}

	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("s3 client: %w", err)
	}

	ttl := cfg.PresignTTL
	if ttl <= 0 {
		ttl = time.Hour
	}

	return &Client{
		logger:     logger,
		mc:         mc,
		region:     cfg.Region,
		bucket:     cfg.BucketUploads,
		presignTTL: ttl,
	}, nil
}

func (c *Client) ensureBucket(ctx context.Context) error {
	exists, err := c.mc.BucketExists(ctx, c.bucket)
	if err != nil {
		return fmt.Errorf("s3 bucket lookup: %w", err)
	}
	if exists {
		return nil
	}
	if err = c.mc.MakeBucket(ctx, c.bucket, minio.MakeBucketOptions{Region: c.region}); err != nil {
		return fmt.Errorf("s3 make bucket %q: %w", c.bucket, err)
	}

	c.logger.Info("s3 bucket created", zap.String("bucket", c.bucket))
	return nil
}

func (c *Client) PutObject(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	_, err := c.mc.PutObject(ctx, c.bucket, key, body, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

// PresignedURL signs a time-limited GET for key. Signing happens locally.
func (c *Client) PresignedURL(ctx context.Context, key string) (string, error) {
	u, err := c.mc.PresignedGetObject(ctx, c.bucket, key, c.presignTTL, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (c *Client) RemoveObject(ctx context.Context, key string) error {
	return c.mc.RemoveObject(ctx, c.bucket, key, minio.RemoveObjectOptions{})
}

func (c *Client) GetBucket() string { return c.bucket }
