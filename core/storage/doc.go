// Package storage provides an abstraction layer for object storage services.
//
// It hides the provider SDKs behind a small Client interface and keeps one
// configured client per bucket in a Registry. Two providers are available:
// the AWS SDK (s3, the default) and the MinIO client (minio) for
// S3-compatible endpoints.
//
// # Client Interface
//
// The Client interface abstracts the underlying storage provider, making it easier
// to mock storage interactions for unit testing (as seen in core/storage/mocks).
//
// # Operations
//
//   - BucketExists: Verifies access to the target bucket.
//   - PutObject: Uploads content with an explicit content type and canned ACL.
//   - PresignGet: Builds a time-limited read URL.
//   - RemoveObject: Deletes a single object.
//   - ListObjects: Lists objects under a prefix (recursive).
//
// # Registry
//
// The Registry is built explicitly and passed to whoever needs it. Register is
// best effort: a bucket whose client cannot be built is logged and skipped.
//
// # Usage
//
//	reg := storage.NewRegistry(logger, nil)
//	reg.Register(ctx, cfg.Buckets)
//	client, bucket, ok := reg.Lookup("assets")
package storage
