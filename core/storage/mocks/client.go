package mocks

import (
	"context"
	"io"
	"time"

	"upload-agent/core/storage"

	"github.com/stretchr/testify/mock"
)

// Client is a mock implementation of storage.Client
type Client struct {
	mock.Mock
}

func (m *Client) BucketExists(ctx context.Context, bucketName string) (bool, error) {
	args := m.Called(ctx, bucketName)
	return args.Bool(0), args.Error(1)
}

func (m *Client) PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts storage.PutOptions) (storage.UploadInfo, error) {
	args := m.Called(ctx, bucketName, objectName, reader, objectSize, opts)
	return args.Get(0).(storage.UploadInfo), args.Error(1)
}

func (m *Client) PresignGet(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error) {
	args := m.Called(ctx, bucketName, objectName, expiry)
	return args.String(0), args.Error(1)
}

func (m *Client) RemoveObject(ctx context.Context, bucketName, objectName string) error {
	args := m.Called(ctx, bucketName, objectName)
	return args.Error(0)
}

func (m *Client) ListObjects(ctx context.Context, bucketName, prefix string) ([]storage.ObjectInfo, error) {
	args := m.Called(ctx, bucketName, prefix)
	if objs, ok := args.Get(0).([]storage.ObjectInfo); ok {
		return objs, args.Error(1)
	}
	return nil, args.Error(1)
}

// Factory returns a storage.Factory that hands out the same mock for every bucket.
func Factory(client *Client) storage.Factory {
	return func(ctx context.Context, cfg storage.BucketConfig) (storage.Client, error) {
		return client, nil
	}
}
