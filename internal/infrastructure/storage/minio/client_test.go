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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/turtacn/ayush-docknet/internal/domain/research"
	apperrors "github.com/turtacn/ayush-docknet/pkg/errors"
)

type mockAPI struct {
	mock.Mock
}

func (m *mockAPI) BucketExists(ctx context.Context, bucket string) (bool, error) {
	args := m.Called(ctx, bucket)
	return args.Bool(0), args.Error(1)
}

func (m *mockAPI) MakeBucket(ctx context.Context, bucket string, opts minio.MakeBucketOptions) error {
	return m.Called(ctx, bucket, opts).Error(0)
}

func (m *mockAPI) SetBucketLifecycle(ctx context.Context, bucket string, cfg *lifecycle.Configuration) error {
	return m.Called(ctx, bucket, cfg).Error(0)
}

func (m *mockAPI) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	body, _ := io.ReadAll(r)
	args := m.Called(ctx, bucket, object, string(body), size, opts)
	return args.Get(0).(minio.UploadInfo), args.Error(1)
}

func (m *mockAPI) PresignedGetObject(ctx context.Context, bucket, object string, expiry time.Duration, params url.Values) (*url.URL, error) {
	args := m.Called(ctx, bucket, object, expiry, params)
	u, _ := args.Get(0).(*url.URL)
	return u, args.Error(1)
}

type ClientTestSuite struct {
	suite.Suite
	api    *mockAPI
	client *Client
	now    time.Time
}

func (s *ClientTestSuite) SetupTest() {
	s.api = &mockAPI{}
	s.now = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	s.client = NewClientWithAPI(s.api, Config{Bucket: "exports", PresignExpiry: 15 * time.Minute}, nil)
	s.client.now = func() time.Time { return s.now }
}

func (s *ClientTestSuite) TearDownTest() {
	s.api.AssertExpectations(s.T())
}

func (s *ClientTestSuite) TestApplyDefaults() {
	cfg := Config{}
	applyDefaults(&cfg)
	s.Equal("us-east-1", cfg.Region)
	s.Equal("docknet-exports", cfg.Bucket)
	s.Equal(time.Hour, cfg.PresignExpiry)
	s.Equal(30, cfg.RetentionDays)
}

func (s *ClientTestSuite) TestEnsureBucket_Creates() {
	s.api.On("BucketExists", mock.Anything, "exports").Return(false, nil)
	s.api.On("MakeBucket", mock.Anything, "exports", minio.MakeBucketOptions{Region: "us-east-1"}).Return(nil)
	s.api.On("SetBucketLifecycle", mock.Anything, "exports", mock.Anything).Return(errors.New("not supported"))

	s.NoError(s.client.EnsureBucket(context.Background()))
}

func (s *ClientTestSuite) TestEnsureBucket_Exists() {
	s.api.On("BucketExists", mock.Anything, "exports").Return(true, nil)
	s.api.On("SetBucketLifecycle", mock.Anything, "exports", mock.MatchedBy(func(c *lifecycle.Configuration) bool {
		return len(c.Rules) == 1 && c.Rules[0].Expiration.Days == 30
	})).Return(nil)

	s.NoError(s.client.EnsureBucket(context.Background()))
}

func (s *ClientTestSuite) TestEnsureBucket_Unreachable() {
	s.api.On("BucketExists", mock.Anything, "exports").Return(false, errors.New("dial tcp"))
	s.True(apperrors.IsServiceUnavailable(s.client.EnsureBucket(context.Background())))
}

func (s *ClientTestSuite) TestUpload() {
	key := ObjectKey("p/1", "csv", s.now)
	s.api.On("PutObject", mock.Anything, "exports", key, "id,name\n", int64(8), mock.MatchedBy(func(o minio.PutObjectOptions) bool {
		return o.ContentType == "text/csv" && o.UserMetadata["project-id"] == "p/1"
	})).Return(minio.UploadInfo{Size: 8}, nil)
	link, _ := url.Parse("https://minio.local/exports/" + key + "?X-Amz-Signature=abc")
	s.api.On("PresignedGetObject", mock.Anything, "exports", key, 15*time.Minute, url.Values(nil)).Return(link, nil)

	got, err := s.client.Upload(context.Background(), research.Artifact{
		ProjectID: "p/1", Format: "csv", ContentType: "text/csv", Body: "id,name\n",
	})
	s.Require().NoError(err)
	s.Equal("exports", got.Bucket)
	s.Equal(int64(8), got.Size)
	s.Equal(link.String(), got.URL)
	s.Equal(s.now.Add(15*time.Minute), got.ExpiresAt)
}

func (s *ClientTestSuite) TestUpload_PutFails() {
	s.api.On("PutObject", mock.Anything, "exports", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, errors.New("denied"))

	_, err := s.client.Upload(context.Background(), research.Artifact{ProjectID: "p1", Format: "sdf", Body: "x"})
	s.True(apperrors.IsCode(err, apperrors.ErrCodeArtifactUpload))
}

func (s *ClientTestSuite) TestUpload_Closed() {
	s.NoError(s.client.Close())
	_, err := s.client.Upload(context.Background(), research.Artifact{ProjectID: "p1"})
	s.Equal(ErrClientClosed, err)
}

func (s *ClientTestSuite) TestUpload_RequiresProject() {
	_, err := s.client.Upload(context.Background(), research.Artifact{})
	s.True(apperrors.IsValidation(err))
}

func TestClientTestSuite(t *testing.T) {
	suite.Run(t, new(ClientTestSuite))
}

func TestObjectKey(t *testing.T) {
	at := time.Unix(0, 42)
	require.Equal(t, "p_1/42-compounds.sdf", ObjectKey("p/1", "SDF", at))
	assert.Equal(t, "abc-DEF_9/42-compounds.csv", ObjectKey("abc-DEF_9", "csv", at))
}
