package storage

import "fmt"

const (
	// ProviderS3 uses the AWS SDK against Amazon S3 (or any S3 endpoint).
	ProviderS3 = "s3"
	// ProviderMinio uses the MinIO client against any S3-compatible endpoint.
	ProviderMinio = "minio"
)

// BucketConfig holds the credentials and defaults for a single bucket.
type BucketConfig struct {
	// Name is the bucket name and the registry key.
	Name string `mapstructure:"name" yaml:"name"`
	// Region is the location of the bucket (e.g., us-east-1).
	Region string `mapstructure:"region" yaml:"region"`
	// AccessKey is the access key ID for authentication.
	AccessKey string `mapstructure:"access_key" yaml:"access_key"`
	// SecretKey is the secret access key for authentication.
	SecretKey string `mapstructure:"secret_key" yaml:"secret_key"`
	// DefaultPrivate is the visibility used when an upload does not choose one.
	// Nil means private.
	DefaultPrivate *bool `mapstructure:"default_private" yaml:"default_private"`
	// Provider selects the client implementation (s3, minio).
	Provider string `mapstructure:"provider" yaml:"provider"`
	// Endpoint overrides the provider endpoint (MinIO, R2, localstack).
	Endpoint string `mapstructure:"endpoint" yaml:"endpoint"`
	// UseSSL indicates whether to use TLS for MinIO connections.
	UseSSL bool `mapstructure:"use_ssl" yaml:"use_ssl"`
	// PathStyle forces path-style addressing for the S3 provider.
	PathStyle bool `mapstructure:"path_style" yaml:"path_style"`
	// TimeoutSeconds is the connection timeout in seconds.
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// IsPrivate reports the effective default visibility of the bucket.
func (c BucketConfig) IsPrivate() bool {
	return c.DefaultPrivate == nil || *c.DefaultPrivate
}

// ProviderName returns the configured provider, defaulting to s3.
func (c BucketConfig) ProviderName() string {
	if c.Provider == "" {
		return ProviderS3
	}
	return c.Provider
}

// Validate checks that the fields every provider needs are present.
func (c BucketConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("bucket name not set")
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("credentials not set for bucket %s", c.Name)
	}
	switch c.ProviderName() {
	case ProviderS3:
		if c.Region == "" {
			return fmt.Errorf("region not set for bucket %s", c.Name)
		}
	case ProviderMinio:
	default:
		return fmt.Errorf("unknown provider %q for bucket %s", c.Provider, c.Name)
	}
	return nil
}
