// Package logger builds the zap logger shared by the service and the CLI.
//
// The debug level selects zap's development settings, any other level the
// production ones. Format picks console or JSON output. When Config.File is
// set, every entry is also written as JSON to a size-rotated file.
//
// # Ray IDs
//
// WithRayID reads the id stored by the rayid middleware and returns a child
// logger carrying it as the ray_id field, so one request can be followed
// across handler, service and storage logs:
//
//	l := logger.WithRayID(log, c)
//	l.Error("Upload failed", zap.String("bucket", bucket), zap.Error(err))
package logger
