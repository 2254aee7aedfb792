package minio

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/minio/minio-go/v7"

	"github.com/turtacn/InsightBoard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/InsightBoard/pkg/errors"
)

var (
	ErrObjectNotFound = errors.New(errors.ErrCodeNotFound, "object not found")
	ErrInvalidRequest = errors.New(errors.ErrCodeValidation, "invalid request")
)

// ObjectInfo describes a stored object.
type ObjectInfo struct {
	Bucket       string
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
}

// isNotFound recognises the S3 error codes for a missing key or bucket.
func isNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}

func mapError(err error, msg, bucket, key string) error {
	if err == nil {
		return nil
	}
	if isNotFound(err) {
		return ErrObjectNotFound.WithDetail(bucket + "/" + key).WithCause(err)
	}
	return errors.Wrap(err, errors.ErrCodeExternalService, msg).WithDetail(bucket + "/" + key)
}

// Put uploads data.  The content type is sniffed when empty.
func (c *Client) Put(ctx context.Context, bucket, key string, data []byte, contentType string) (*ObjectInfo, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	if bucket == "" || key == "" {
		return nil, ErrInvalidRequest
	}
	if contentType == "" && len(data) > 0 {
		contentType = http.DetectContentType(data[:min(512, len(data))])
	}

	info, err := c.api.PutObject(ctx, bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		return nil, mapError(err, "upload failed", bucket, key)
	}
	c.logger.Debug("object uploaded",
		logging.String("bucket", bucket),
		logging.String("key", key),
		logging.Int64("size", info.Size))
	return &ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  contentType,
		LastModified: info.LastModified,
	}, nil
}

// Stat returns metadata for an object.
func (c *Client) Stat(ctx context.Context, bucket, key string) (*ObjectInfo, error) {
	if err := c.check(); err != nil {
		return nil, err
	}
	info, err := c.api.StatObject(ctx, bucket, key, minio.StatObjectOptions{})
	if err != nil {
		return nil, mapError(err, "stat failed", bucket, key)
	}
	return &ObjectInfo{
		Bucket:       bucket,
		Key:          key,
		Size:         info.Size,
		ETag:         info.ETag,
		ContentType:  info.ContentType,
		LastModified: info.LastModified,
	}, nil
}

// Open streams an object.  The object is stat'ed first so a missing key is
// reported here rather than on the first Read.
func (c *Client) Open(ctx context.Context, bucket, key string) (io.ReadCloser, error) {
	if _, err := c.Stat(ctx, bucket, key); err != nil {
		return nil, err
	}
	obj, err := c.api.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapError(err, "download failed", bucket, key)
	}
	return obj, nil
}

// PresignedGetURL returns a time-limited download link.  Zero expiry uses
// the configured default.
func (c *Client) PresignedGetURL(ctx context.Context, bucket, key string, expiry time.Duration) (string, error) {
	if err := c.check(); err != nil {
		return "", err
	}
	if expiry <= 0 {
		expiry = c.cfg.PresignExpiry
	}
	u, err := c.api.PresignedGetObject(ctx, bucket, key, expiry, nil)
	if err != nil {
		return "", mapError(err, "presign failed", bucket, key)
	}
	return u.String(), nil
}

// ExportSink stores export workbooks in one bucket.  It satisfies the
// dashboard service's object sink.
type ExportSink struct {
	client *Client
	bucket string
}

// NewExportSink binds client to the configured export bucket.
func NewExportSink(client *Client) *ExportSink {
	return &ExportSink{client: client, bucket: client.Config().ExportBucket}
}

// Bucket returns the export bucket name.
func (s *ExportSink) Bucket() string { return s.bucket }

// Ensure creates the export bucket with its retention rule.
func (s *ExportSink) Ensure(ctx context.Context) error {
	return s.client.EnsureBucket(ctx, s.bucket, ExportRetentionDays)
}

// PutObject uploads an export.
func (s *ExportSink) PutObject(ctx context.Context, key string, data []byte, contentType string) error {
	_, err := s.client.Put(ctx, s.bucket, key, data, contentType)
	return err
}

// PresignedGetURL returns a download link for an export.
func (s *ExportSink) PresignedGetURL(ctx context.Context, key string, expiry time.Duration) (string, error) {
	return s.client.PresignedGetURL(ctx, s.bucket, key, expiry)
}

//Personal.AI order the ending
