package objects

import (
	"context"
	"testing"
	"time"

	"upload-agent/core/storage"
	"upload-agent/core/storage/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func boolPtr(b bool) *bool { return &b }

func setupOperations(t *testing.T, buckets ...storage.BucketConfig) (*Operations, *mocks.Client) {
	t.Helper()
	client := new(mocks.Client)
	reg := storage.NewRegistry(zap.NewNop(), mocks.Factory(client))
	reg.Register(context.Background(), buckets)

	ops := New(reg, zap.NewNop())
	ops.newID = func() string { return "fixed-id" }
	return ops, client
}

func TestValidateFolder(t *testing.T) {
	valid := []string{"", "/a", "/photos", "/photos/2024", "/a/b/c", "/with space/x"}
	for _, folder := range valid {
		assert.NoError(t, ValidateFolder(folder), folder)
	}

	invalid := []string{"/", "photos", "photos/", "/photos/", "//photos", "/photos//2024", "/pho\x00tos", "/a/b/"}
	for _, folder := range invalid {
		assert.ErrorIs(t, ValidateFolder(folder), ErrInvalidFolder, folder)
	}
}

func TestObjectKey(t *testing.T) {
	assert.Equal(t, "id", ObjectKey("", "id"))
	assert.Equal(t, "/photos/id", ObjectKey("/photos", "id"))
	assert.Equal(t, "/photos/2024/id", ObjectKey("/photos/2024", "id"))
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("PutObject", mock.Anything, "photos", "/avatars/fixed-id", mock.Anything, int64(3),
			storage.PutOptions{ContentType: "image/png", ACL: storage.ACLPrivate}).
			Return(storage.UploadInfo{Key: "/avatars/fixed-id"}, nil)

		key, err := ops.Upload(ctx, UploadRequest{
			Body:        []byte("abc"),
			Folder:      "/avatars",
			Bucket:      "photos",
			ContentType: "image/png",
		})

		require.NoError(t, err)
		assert.Equal(t, "/avatars/fixed-id", key)
		client.AssertExpectations(t)
	})

	t.Run("RealKeysAreUUIDs", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		ops.newID = New(nil, nil).newID
		client.On("PutObject", mock.Anything, "photos", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.UploadInfo{}, nil)

		first, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Bucket: "photos", ContentType: "text/plain"})
		require.NoError(t, err)
		second, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Bucket: "photos", ContentType: "text/plain"})
		require.NoError(t, err)

		assert.Len(t, first, 36)
		assert.NotEqual(t, first, second)
	})

	t.Run("BucketNotConfigured", func(t *testing.T) {
		ops, client := setupOperations(t)

		_, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Bucket: "missing", ContentType: "text/plain"})

		assert.ErrorIs(t, err, ErrBucketNotConfigured)
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidFolderNeverReachesProvider", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})

		for _, folder := range []string{"photos", "/photos/", "//x", "/a//b", "/nul\x00"} {
			_, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Folder: folder, Bucket: "photos", ContentType: "text/plain"})
			assert.ErrorIs(t, err, ErrInvalidFolder, folder)
		}
		client.AssertNotCalled(t, "PutObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("MissingContentType", func(t *testing.T) {
		ops, _ := setupOperations(t, storage.BucketConfig{Name: "photos"})

		_, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Bucket: "photos"})
		assert.ErrorIs(t, err, ErrInvalidContentType)
	})

	t.Run("ProviderFault", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("PutObject", mock.Anything, "photos", mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(storage.UploadInfo{}, assert.AnError)

		_, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Bucket: "photos", ContentType: "text/plain"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestUpload_Visibility(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name      string
		bucketDef *bool
		private   *bool
		want      storage.ACL
	}{
		{"BucketUnsetDefaultsPrivate", nil, nil, storage.ACLPrivate},
		{"BucketPrivate", boolPtr(true), nil, storage.ACLPrivate},
		{"BucketPublic", boolPtr(false), nil, storage.ACLPublicRead},
		{"OverrideToPublic", boolPtr(true), boolPtr(false), storage.ACLPublicRead},
		{"OverrideToPrivate", boolPtr(false), boolPtr(true), storage.ACLPrivate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ops, client := setupOperations(t, storage.BucketConfig{Name: "photos", DefaultPrivate: tt.bucketDef})
			client.On("PutObject", mock.Anything, "photos", "fixed-id", mock.Anything, int64(1),
				storage.PutOptions{ContentType: "text/plain", ACL: tt.want}).
				Return(storage.UploadInfo{}, nil)

			key, err := ops.Upload(ctx, UploadRequest{Body: []byte("a"), Bucket: "photos", Private: tt.private, ContentType: "text/plain"})

			require.NoError(t, err)
			assert.Equal(t, "fixed-id", key)
			client.AssertExpectations(t)
		})
	}
}

func TestPresign(t *testing.T) {
	ctx := context.Background()

	t.Run("DefaultExpiry", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("PresignGet", mock.Anything, "photos", "a/key", time.Hour).Return("https://signed", nil)

		url, err := ops.Presign(ctx, PresignRequest{Key: "a/key", Bucket: "photos"})

		require.NoError(t, err)
		assert.Equal(t, "https://signed", url)
	})

	t.Run("CustomExpiry", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("PresignGet", mock.Anything, "photos", "key", 5*time.Minute).Return("https://signed", nil)

		_, err := ops.Presign(ctx, PresignRequest{Key: "key", Bucket: "photos", Expiry: 5 * time.Minute})
		require.NoError(t, err)
		client.AssertExpectations(t)
	})

	t.Run("BucketNotConfigured", func(t *testing.T) {
		ops, _ := setupOperations(t)

		url, err := ops.Presign(ctx, PresignRequest{Key: "key", Bucket: "missing"})
		assert.ErrorIs(t, err, ErrBucketNotConfigured)
		assert.Empty(t, url)
	})

	t.Run("ProviderFault", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("PresignGet", mock.Anything, "photos", "key", time.Hour).Return("", assert.AnError)

		_, err := ops.Presign(ctx, PresignRequest{Key: "key", Bucket: "photos"})
		assert.ErrorIs(t, err, assert.AnError)
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("RemoveObject", mock.Anything, "photos", "key").Return(nil)

		assert.NoError(t, ops.Delete(ctx, "key", "photos"))
	})

	t.Run("BucketNotConfigured", func(t *testing.T) {
		ops, _ := setupOperations(t)
		assert.ErrorIs(t, ops.Delete(ctx, "key", "missing"), ErrBucketNotConfigured)
	})

	t.Run("ProviderFault", func(t *testing.T) {
		ops, client := setupOperations(t, storage.BucketConfig{Name: "photos"})
		client.On("RemoveObject", mock.Anything, "photos", "key").Return(assert.AnError)

		assert.ErrorIs(t, ops.Delete(ctx, "key", "photos"), assert.AnError)
	})
}
