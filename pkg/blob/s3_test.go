package blob_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/filemanager/pkg/blob"
)

type MockS3Client struct {
	mock.Mock
}

func (m *MockS3Client) PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.PutObjectOutput), args.Error(1)
}

func (m *MockS3Client) GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.GetObjectOutput), args.Error(1)
}

func (m *MockS3Client) HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.HeadObjectOutput), args.Error(1)
}

func (m *MockS3Client) DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*s3.DeleteObjectOutput), args.Error(1)
}

func newS3(t *testing.T, client *MockS3Client) *blob.S3Storage {
	t.Helper()
	store, err := blob.NewS3Storage(context.Background(), blob.S3Config{
		Bucket: "files",
		Region: "us-east-1",
	}, blob.WithS3Client(client))
	require.NoError(t, err)
	return store
}

func TestNewS3Storage_InvalidConfig(t *testing.T) {
	t.Parallel()

	_, err := blob.NewS3Storage(context.Background(), blob.S3Config{Region: "us-east-1"})
	assert.ErrorIs(t, err, blob.ErrInvalidConfig)

	_, err = blob.NewS3Storage(context.Background(), blob.S3Config{Bucket: "b"})
	assert.ErrorIs(t, err, blob.ErrInvalidConfig)
}

func TestS3Storage_Put(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.MatchedBy(func(in *s3.PutObjectInput) bool {
			return *in.Bucket == "files" && *in.Key == "abc" && *in.ContentLength == 3
		})).Return(&s3.PutObjectOutput{}, nil)

		loc, err := newS3(t, client).Put(ctx, "abc", []byte("xyz"))
		require.NoError(t, err)
		assert.Equal(t, "abc", loc)
		client.AssertExpectations(t)
	})

	t.Run("access denied", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("PutObject", mock.Anything, mock.Anything).
			Return(nil, &smithy.GenericAPIError{Code: "AccessDenied", Message: "denied"})

		_, err := newS3(t, client).Put(ctx, "abc", []byte("xyz"))
		assert.ErrorIs(t, err, blob.ErrAccessDenied)
	})

	t.Run("invalid key never reaches S3", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}

		_, err := newS3(t, client).Put(ctx, "../x", []byte("xyz"))
		assert.ErrorIs(t, err, blob.ErrInvalidKey)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything)
	})
}

func TestS3Storage_Get(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.MatchedBy(func(in *s3.GetObjectInput) bool {
			return *in.Key == "abc_500"
		})).Return(&s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader([]byte("thumb")))}, nil)

		data, err := newS3(t, client).Get(ctx, "abc_500")
		require.NoError(t, err)
		assert.Equal(t, "thumb", string(data))
	})

	t.Run("no such key", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, &types.NoSuchKey{})

		_, err := newS3(t, client).Get(ctx, "missing")
		assert.ErrorIs(t, err, blob.ErrNotFound)
	})

	t.Run("canceled", func(t *testing.T) {
		t.Parallel()
		client := &MockS3Client{}
		client.On("GetObject", mock.Anything, mock.Anything).Return(nil, context.Canceled)

		_, err := newS3(t, client).Get(ctx, "k")
		assert.ErrorIs(t, err, blob.ErrOperationCanceled)
	})
}

func TestS3Storage_ExistsDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &MockS3Client{}
	client.On("HeadObject", mock.Anything, mock.MatchedBy(func(in *s3.HeadObjectInput) bool {
		return *in.Key == "here"
	})).Return(&s3.HeadObjectOutput{}, nil)
	client.On("HeadObject", mock.Anything, mock.Anything).Return(nil, &types.NotFound{})
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(nil, errors.New("boom")).Once()
	client.On("DeleteObject", mock.Anything, mock.Anything).Return(&s3.DeleteObjectOutput{}, nil)

	store := newS3(t, client)
	assert.True(t, store.Exists(ctx, "here"))
	assert.False(t, store.Exists(ctx, "gone"))
	assert.False(t, store.Exists(ctx, "a/b"))

	assert.Error(t, store.Delete(ctx, "here"))
	assert.NoError(t, store.Delete(ctx, "here"))
}
