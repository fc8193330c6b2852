// Package config provides configuration management for the upload agent.
//
// It utilizes Viper for loading configuration from environment variables,
// a .env file and an optional config.yaml.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP server settings (port, API key, body limit, metrics)
//   - Log: logging level, format and optional rotating file
//   - Upload: allowed types, size ceiling, batch concurrency, presign expiry
//   - Database: optional ledger connection
//   - Buckets: the storage buckets, read from config.yaml only
//
// Scalar keys can be overridden through SECTION_KEY environment variables,
// for example SERVER_PORT or UPLOAD_ALLOWED_MIMES=image/png,image/jpeg.
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Server.Port)
package config
