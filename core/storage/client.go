package storage

import (
	"context"
	"fmt"
	"io"
	"time"
)

// ACL is the canned visibility applied to an uploaded object.
type ACL string

const (
	ACLPrivate    ACL = "private"
	ACLPublicRead ACL = "public-read"
)

// ACLFor maps a private flag to its canned ACL.
func ACLFor(private bool) ACL {
	if private {
		return ACLPrivate
	}
	return ACLPublicRead
}

// PutOptions carries the per-object settings of an upload.
type PutOptions struct {
	// ContentType is always sent explicitly, never inferred by the provider.
	ContentType string
	ACL         ACL
}

// UploadInfo describes a stored object.
type UploadInfo struct {
	Key  string
	ETag string
	Size int64
}

// ObjectInfo is a single entry of a bucket listing.
type ObjectInfo struct {
	Key  string
	Size int64
}

// Client defines the interface for storage operations.
type Client interface {
	// BucketExists checks if a bucket exists.
	BucketExists(ctx context.Context, bucketName string) (bool, error)
	// PutObject uploads an object.
	PutObject(ctx context.Context, bucketName, objectName string, reader io.Reader, objectSize int64, opts PutOptions) (UploadInfo, error)
	// PresignGet returns a time-limited read URL for an object.
	PresignGet(ctx context.Context, bucketName, objectName string, expiry time.Duration) (string, error)
	// RemoveObject deletes an object from a bucket.
	RemoveObject(ctx context.Context, bucketName, objectName string) error
	// ListObjects lists every object under prefix, recursively.
	ListObjects(ctx context.Context, bucketName, prefix string) ([]ObjectInfo, error)
}

// Factory builds a client for one bucket.
type Factory func(ctx context.Context, cfg BucketConfig) (Client, error)

// NewClient creates a client for the provider named in the configuration.
func NewClient(ctx context.Context, cfg BucketConfig) (Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	switch cfg.ProviderName() {
	case ProviderMinio:
		return NewMinioClient(cfg)
	case ProviderS3:
		return NewS3Client(ctx, cfg)
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func timeoutOf(cfg BucketConfig) time.Duration {
	timeout := cfg.TimeoutSeconds
	if timeout <= 0 {
		timeout = 30
	}
	return time.Duration(timeout) * time.Second
}
