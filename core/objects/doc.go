// Package objects implements the object operations: upload, pre-signed read
// URLs and delete, each addressed by bucket name through a storage.Registry.
//
// Every operation reports failure through its error:
//   - ErrBucketNotConfigured when the bucket has no registered client (also logged as a warning).
//   - ErrInvalidFolder / ErrInvalidContentType for rejected uploads, before the provider is contacted.
//   - The wrapped provider error otherwise.
//
// Object keys are fresh UUIDs, optionally namespaced under a folder
// keeping its leading slash ("/photos/2024/<uuid>"), and never derived from
// client file names.
package objects
