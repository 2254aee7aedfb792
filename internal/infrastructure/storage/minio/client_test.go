package minio

import (
	"context"
	"errors"
	"io"
	"net/url"
	"testing"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/lifecycle"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/InsightBoard/internal/config"
	"github.com/turtacn/InsightBoard/internal/testutil"
	apperrors "github.com/turtacn/InsightBoard/pkg/errors"
)

// MockAPI is a testify mock of API.
type MockAPI struct {
	mock.Mock
}

func (m *MockAPI) ListBuckets(ctx context.Context) ([]minio.BucketInfo, error) {
	args := m.Called(ctx)
	buckets, _ := args.Get(0).([]minio.BucketInfo)
	return buckets, args.Error(1)
}

func (m *MockAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *MockAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *MockAPI) SetBucketLifecycle(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error {
	return m.Called(ctx, bucket, cfg).Error(0)
}

func (m *MockAPI) PutObject(ctx context.Context, bucket, key string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	data, _ := io.ReadAll(r)
	args := m.Called(ctx, bucket, key, data, size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *MockAPI) GetObject(ctx context.Context, bucket, key string, opts minio.GetObjectOptions) (*minio.Object, error) {
	args := m.Called(ctx, bucket, key, opts)
	obj, _ := args.Get(0).(*minio.Object)
	return obj, args.Error(1)
}

func (m *MockAPI) StatObject(ctx context.Context, bucket, key string, opts minio.StatObjectOptions) (minio.ObjectInfo, error) {
	args := m.Called(ctx, bucket, key, opts)
	return args.Get(0).(minio.ObjectInfo), args.Error(1)
}

func (m *MockAPI) PresignedGetObject(ctx context.Context, bucket, key string, expiry time.Duration, params url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucket, key, expiry, params)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

var noSuchKey = minio.ErrorResponse{Code: "NoSuchKey", StatusCode: 404, Message: "The specified key does not exist."}

type ClientTestSuite struct {
	suite.Suite
	api    *MockAPI
	client *Client
	logger *testutil.MockLogger
	ctx    context.Context
}

func (s *ClientTestSuite) SetupTest() {
	s.api = new(MockAPI)
	s.logger = testutil.NewMockLogger()
	s.client = NewClientWithAPI(s.api, config.StorageConfig{}, s.logger)
	s.ctx = context.Background()
}

func (s *ClientTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestDefaults() {
	cfg := s.client.Config()
	s.Equal(config.DefaultMinIORegion, cfg.Region)
	s.Equal(config.DefaultExportBucket, cfg.ExportBucket)
	s.Equal(config.DefaultPresignExpiry, cfg.PresignExpiry)
}

func (s *ClientTestSuite) TestHealthCheck() {
	s.api.On("ListBuckets", s.ctx).Return([]minio.BucketInfo{}, nil).Once()
	s.NoError(s.client.HealthCheck(s.ctx))

	s.api.On("ListBuckets", s.ctx).Return(nil, errors.New("dial tcp: refused")).Once()
	err := s.client.HealthCheck(s.ctx)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeServiceUnavailable))
}

func (s *ClientTestSuite) TestEnsureBucket_CreatesWithLifecycle() {
	s.api.On("BucketExists", s.ctx, "exports").Return(false, nil)
	s.api.On("MakeBucket", s.ctx, "exports", minio.MakeBucketOptions{Region: config.DefaultMinIORegion}).Return(nil)
	s.api.On("SetBucketLifecycle", s.ctx, "exports", mock.MatchedBy(func(lc *lifecycle.Configuration) bool {
		return len(lc.Rules) == 1 && lc.Rules[0].Expiration.Days == lifecycle.ExpirationDays(ExportRetentionDays)
	})).Return(errors.New("not implemented"))

	s.NoError(s.client.EnsureBucket(s.ctx, "exports", ExportRetentionDays))
	s.True(s.logger.HasMessage("info", "created bucket"))
	s.True(s.logger.HasMessage("warn", "failed to set bucket lifecycle"))
}

func (s *ClientTestSuite) TestEnsureBucket_Existing() {
	s.api.On("BucketExists", s.ctx, "data").Return(true, nil)
	s.NoError(s.client.EnsureBucket(s.ctx, "data", 0))
}

func (s *ClientTestSuite) TestEnsureBucket_Error() {
	s.api.On("BucketExists", s.ctx, "data").Return(false, errors.New("denied"))
	err := s.client.EnsureBucket(s.ctx, "data", 0)
	s.True(apperrors.IsCode(err, apperrors.ErrCodeExternalService))
}

func (s *ClientTestSuite) TestPut() {
	data := []byte(`[{"title":"x"}]`)
	uploaded := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	s.api.On("PutObject", s.ctx, "b", "k.json", data, int64(len(data)), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "text/plain; charset=utf-8"
	})).Return(minio.UploadInfo{Size: int64(len(data)), ETag: "etag", LastModified: uploaded}, nil)

	info, err := s.client.Put(s.ctx, "b", "k.json", data, "")
	s.Require().NoError(err)
	s.Equal("etag", info.ETag)
	s.Equal(int64(len(data)), info.Size)
	s.Equal(uploaded, info.LastModified)
}

func (s *ClientTestSuite) TestPut_Invalid() {
	_, err := s.client.Put(s.ctx, "", "k", nil, "")
	s.ErrorIs(err, ErrInvalidRequest)
}

func (s *ClientTestSuite) TestStatAndOpen_NotFound() {
	s.api.On("StatObject", s.ctx, "b", "missing.json", minio.StatObjectOptions{}).Return(minio.ObjectInfo{}, noSuchKey)

	_, err := s.client.Stat(s.ctx, "b", "missing.json")
	s.True(apperrors.IsNotFound(err))

	_, err = s.client.Open(s.ctx, "b", "missing.json")
	s.True(apperrors.IsNotFound(err))
	s.api.AssertNotCalled(s.T(), "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (s *ClientTestSuite) TestStat() {
	s.api.On("StatObject", s.ctx, "b", "k", minio.StatObjectOptions{}).
		Return(minio.ObjectInfo{Size: 10, ETag: "e", ContentType: "application/json"}, nil)
	info, err := s.client.Stat(s.ctx, "b", "k")
	s.Require().NoError(err)
	s.Equal("application/json", info.ContentType)
}

func (s *ClientTestSuite) TestPresignedGetURL_DefaultExpiry() {
	u, _ := url.Parse("http://minio:9000/b/k?X-Amz-Signature=abc")
	s.api.On("PresignedGetObject", s.ctx, "b", "k", config.DefaultPresignExpiry, url.Values(nil)).Return(u, nil)

	got, err := s.client.PresignedGetURL(s.ctx, "b", "k", 0)
	s.Require().NoError(err)
	s.Equal(u.String(), got)
}

func (s *ClientTestSuite) TestClosed() {
	s.Require().NoError(s.client.Close())
	s.ErrorIs(s.client.HealthCheck(s.ctx), ErrClientClosed)
	_, err := s.client.Put(s.ctx, "b", "k", []byte("x"), "")
	s.ErrorIs(err, ErrClientClosed)
	_, err = s.client.PresignedGetURL(s.ctx, "b", "k", time.Minute)
	s.ErrorIs(err, ErrClientClosed)
}

func (s *ClientTestSuite) TestExportSink() {
	sink := NewExportSink(s.client)
	s.Equal(config.DefaultExportBucket, sink.Bucket())

	data := []byte("PK\x03\x04workbook")
	s.api.On("PutObject", s.ctx, sink.Bucket(), "exports/2024/01/x.xlsx", data, int64(len(data)), mock.Anything).
		Return(minio.UploadInfo{Size: int64(len(data))}, nil)
	s.NoError(sink.PutObject(s.ctx, "exports/2024/01/x.xlsx", data, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"))

	u, _ := url.Parse("http://minio:9000/x")
	s.api.On("PresignedGetObject", s.ctx, sink.Bucket(), "exports/2024/01/x.xlsx", 15*time.Minute, url.Values(nil)).Return(u, nil)
	got, err := sink.PresignedGetURL(s.ctx, "exports/2024/01/x.xlsx", 15*time.Minute)
	s.Require().NoError(err)
	s.Equal("http://minio:9000/x", got)

	s.api.On("BucketExists", s.ctx, sink.Bucket()).Return(true, nil)
	s.api.On("SetBucketLifecycle", s.ctx, sink.Bucket(), mock.Anything).Return(nil)
	s.NoError(sink.Ensure(s.ctx))
}

func TestClientSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

//Personal.AI order the ending
