package objects

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"upload-agent/core/storage"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultPresignExpiry is used when a presign request does not set an expiry.
const DefaultPresignExpiry = time.Hour

var (
	// ErrBucketNotConfigured is returned when no client is registered for the bucket.
	ErrBucketNotConfigured = errors.New("bucket not configured")
	// ErrInvalidFolder is returned for folder paths that are not /segment(/segment)*.
	ErrInvalidFolder = errors.New("invalid folder path: it must start with '/', must not end with '/' and must not contain empty segments")
	// ErrInvalidContentType is returned when an upload carries no content type.
	ErrInvalidContentType = errors.New("invalid content type")
)

var folderPattern = regexp.MustCompile(`^(/[^/\x00]+)+$`)

// UploadRequest describes a single upload.
type UploadRequest struct {
	Body   []byte
	Folder string
	Bucket string
	// Private overrides the bucket default visibility when set.
	Private     *bool
	ContentType string
}

// PresignRequest describes a pre-signed read URL.
type PresignRequest struct {
	Key    string
	Bucket string
	Expiry time.Duration
}

// Operations performs object operations against the buckets of a registry.
type Operations struct {
	registry *storage.Registry
	logger   *zap.Logger
	newID    func() string
}

// New creates the object operations for a registry.
func New(registry *storage.Registry, logger *zap.Logger) *Operations {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Operations{
		registry: registry,
		logger:   logger,
		newID:    uuid.NewString,
	}
}

// ValidateFolder checks a destination folder. The empty folder is valid.
func ValidateFolder(folder string) error {
	if folder != "" && !folderPattern.MatchString(folder) {
		return ErrInvalidFolder
	}
	return nil
}

// ObjectKey joins a validated folder and an id into a storage key.
// The folder keeps its leading slash: "/avatars" gives "/avatars/<id>".
func ObjectKey(folder, id string) string {
	if folder == "" {
		return id
	}
	return folder + "/" + id
}

// Upload stores the body under a fresh random key and returns that key.
func (o *Operations) Upload(ctx context.Context, req UploadRequest) (string, error) {
	client, bucket, err := o.lookup(req.Bucket)
	if err != nil {
		return "", err
	}

	if err := ValidateFolder(req.Folder); err != nil {
		return "", err
	}
	if req.ContentType == "" {
		return "", ErrInvalidContentType
	}

	private := bucket.IsPrivate()
	if req.Private != nil {
		private = *req.Private
	}

	key := ObjectKey(req.Folder, o.newID())
	info, err := client.PutObject(ctx, req.Bucket, key, bytes.NewReader(req.Body), int64(len(req.Body)), storage.PutOptions{
		ContentType: req.ContentType,
		ACL:         storage.ACLFor(private),
	})
	if err != nil {
		o.logger.Error("Upload failed", zap.String("bucket", req.Bucket), zap.String("key", key), zap.Error(err))
		return "", fmt.Errorf("upload %s: %w", key, err)
	}

	if info.Key != "" {
		key = info.Key
	}
	o.logger.Debug("Uploaded object",
		zap.String("bucket", req.Bucket),
		zap.String("key", key),
		zap.String("content_type", req.ContentType),
		zap.Bool("private", private),
		zap.Int("size", len(req.Body)))

	return key, nil
}

// Presign returns a time-limited read URL for an object.
func (o *Operations) Presign(ctx context.Context, req PresignRequest) (string, error) {
	client, _, err := o.lookup(req.Bucket)
	if err != nil {
		return "", err
	}

	expiry := req.Expiry
	if expiry <= 0 {
		expiry = DefaultPresignExpiry
	}

	url, err := client.PresignGet(ctx, req.Bucket, req.Key, expiry)
	if err != nil {
		o.logger.Error("Presign failed", zap.String("bucket", req.Bucket), zap.String("key", req.Key), zap.Error(err))
		return "", fmt.Errorf("presign %s: %w", req.Key, err)
	}
	return url, nil
}

// Delete removes an object. A nil error means the object was deleted.
func (o *Operations) Delete(ctx context.Context, key, bucketName string) error {
	client, _, err := o.lookup(bucketName)
	if err != nil {
		return err
	}

	if err := client.RemoveObject(ctx, bucketName, key); err != nil {
		o.logger.Error("Delete failed", zap.String("bucket", bucketName), zap.String("key", key), zap.Error(err))
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

func (o *Operations) lookup(bucketName string) (storage.Client, storage.BucketConfig, error) {
	client, cfg, ok := o.registry.Lookup(bucketName)
	if !ok {
		o.logger.Warn("Storage client not found", zap.String("bucket", bucketName))
		return nil, storage.BucketConfig{}, fmt.Errorf("%w: %s", ErrBucketNotConfigured, bucketName)
	}
	return client, cfg, nil
}
