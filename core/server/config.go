package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the secret key required to access the API.
	ApiKey string `mapstructure:"api_key" default:""`
	// BodyLimitMB caps the size of a request body. Above 16, multipart forms
	// may be spilled to temporary files while parsing.
	BodyLimitMB int `mapstructure:"body_limit_mb" default:"16"`
	// Metrics exposes Prometheus metrics on /metrics.
	Metrics bool `mapstructure:"metrics" default:"true"`
}

const defaultBodyLimitMB = 16

// BodyLimit returns the request body limit in bytes.
func (c Config) BodyLimit() int {
	mb := c.BodyLimitMB
	if mb <= 0 {
		mb = defaultBodyLimitMB
	}
	return mb << 20
}

// Address returns the listen address.
func (c Config) Address() string {
	if c.Port == "" {
		return ":8080"
	}
	return ":" + c.Port
}
