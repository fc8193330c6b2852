package agent

import (
	"time"

	"upload-agent/core/middleware/upload"
)

// Config holds the upload settings of the service.
type Config struct {
	// AllowedMimes restricts uploaded part types. Empty allows every type.
	AllowedMimes []string `mapstructure:"allowed_mimes" default:""`
	// MaxSizeMB caps the total size of the parts of one request.
	MaxSizeMB int `mapstructure:"max_size_mb" default:"10"`
	// MaxFiles caps the number of parts of a batch upload.
	MaxFiles int `mapstructure:"max_files" default:"10"`
	// Concurrency bounds the parallel uploads of one batch.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// Optimize recompresses images when a request does not choose.
	Optimize bool `mapstructure:"optimize" default:"false"`
	// PresignExpirySeconds is the lifetime of a signed URL when a request does not choose.
	PresignExpirySeconds int `mapstructure:"presign_expiry_seconds" default:"3600"`
	// ReconcileCacheSeconds keeps a reconcile index for reuse by the HTTP service. Zero disables the cache.
	ReconcileCacheSeconds int `mapstructure:"reconcile_cache_seconds" default:"30"`
}

// Middleware returns the upload middleware settings.
func (c Config) Middleware() upload.Config {
	return upload.Config{
		AllowedMimes: c.AllowedMimes,
		MaxSize:      int64(c.MaxSizeMB) << 20,
	}
}

// PresignExpiry returns the default signed URL lifetime.
func (c Config) PresignExpiry() time.Duration {
	return time.Duration(c.PresignExpirySeconds) * time.Second
}

// ReconcileCacheTTL returns how long a reconcile index is reused.
func (c Config) ReconcileCacheTTL() time.Duration {
	return time.Duration(c.ReconcileCacheSeconds) * time.Second
}
