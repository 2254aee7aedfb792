// Package minio reads dataset payloads from, and writes export workbooks to,
// S3-compatible object storage.
package minio

import (
	"context"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/minio/minio-go/v7/pkg/lifecycle"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

// API is the subset of *minio.Client used here.
type API interface {
	ListBuckets(ctx context.Context) ([]minio.BucketInfo, error)
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	MakeBucket(ctx context.Context, bucketName string, opts minio.MakeBucketOptions) error
	SetBucketLifecycle(ctx context.Context, bucketName string, config *lifecycle.Configuration) error
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts minio.PutObjectOptions) (minio.UploadInfo, error)
	GetObject(ctx context.Context, bucketName, objectName string, opts minio.GetObjectOptions) (*minio.Object, error)
	StatObject(ctx context.Context, bucketName, objectName string, opts minio.StatObjectOptions) (minio.ObjectInfo, error)
	PresignedGetObject(ctx context.Context, bucketName, objectName string, expiry time.Duration, reqParams url.Values) (*url.URL, error)
}

var ErrClientClosed = errors.New(errors.ErrCodeInternal, "minio client is closed")

// ExportRetentionDays bounds how long export workbooks are kept.
const ExportRetentionDays = 7

// Client wraps the MinIO API with InsightBoard defaults.
type Client struct {
	api    API
	cfg    config.StorageConfig
	logger logging.Logger

	mu     sync.RWMutex
	closed bool
}

// NewClient connects to cfg.Endpoint and verifies it with ListBuckets.
func NewClient(ctx context.Context, cfg config.StorageConfig, log logging.Logger) (*Client, error) {
	applyDefaults(&cfg)
	api, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeValidation, "failed to create minio client")
	}

	c := NewClientWithAPI(api, cfg, log)
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := c.HealthCheck(pingCtx); err != nil {
		return nil, err
	}

	c.logger.Info("minio client connected",
		logging.String("endpoint", cfg.Endpoint),
		logging.Bool("ssl", cfg.UseSSL))
	return c, nil
}

// NewClientWithAPI wraps an existing API implementation.
func NewClientWithAPI(api API, cfg config.StorageConfig, log logging.Logger) *Client {
	if log == nil {
		log = logging.NewNopLogger()
	}
	applyDefaults(&cfg)
	return &Client{api: api, cfg: cfg, logger: log.Named("minio")}
}

func applyDefaults(cfg *config.StorageConfig) {
	if cfg.Region == "" {
		cfg.Region = config.DefaultMinIORegion
	}
	if cfg.ExportBucket == "" {
		cfg.ExportBucket = config.DefaultExportBucket
	}
	if cfg.PresignExpiry == 0 {
		cfg.PresignExpiry = config.DefaultPresignExpiry
	}
}

// Config returns the effective configuration.
func (c *Client) Config() config.StorageConfig { return c.cfg }

func (c *Client) check() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClientClosed
	}
	return nil
}

// EnsureBucket creates bucket when missing.  When expireDays is positive the
// bucket gets an expiration rule; a failure to set it is only logged.
func (c *Client) EnsureBucket(ctx context.Context, bucket string, expireDays int) error {
	if err := c.check(); err != nil {
		return err
	}
	exists, err := c.api.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, errors.ErrCodeExternalService, "failed to check bucket").WithDetail("bucket=" + bucket)
	}
	if !exists {
		if err := c.api.MakeBucket(ctx, bucket, minio.MakeBucketOptions{Region: c.cfg.Region}); err != nil {
			return errors.Wrap(err, errors.ErrCodeExternalService, "failed to create bucket").WithDetail("bucket=" + bucket)
		}
		c.logger.Info("created bucket", logging.String("bucket", bucket))
	}
	if expireDays <= 0 {
		return nil
	}

	lc := lifecycle.NewConfiguration()
	lc.Rules = []lifecycle.Rule{{
		ID:         bucket + "-expiry",
		Status:     "Enabled",
		Expiration: lifecycle.Expiration{Days: lifecycle.ExpirationDays(expireDays)},
	}}
	if err := c.api.SetBucketLifecycle(ctx, bucket, lc); err != nil {
		c.logger.Warn("failed to set bucket lifecycle", logging.String("bucket", bucket), logging.Err(err))
	}
	return nil
}

// HealthCheck lists buckets to confirm the endpoint answers.
func (c *Client) HealthCheck(ctx context.Context) error {
	if err := c.check(); err != nil {
		return err
	}
	if _, err := c.api.ListBuckets(ctx); err != nil {
		return errors.Wrap(err, errors.ErrCodeServiceUnavailable, "minio health check failed")
	}
	return nil
}

// Close marks the client closed.  minio-go holds no long-lived resources.
func (c *Client) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	return nil
}

//Personal.AI order the ending
