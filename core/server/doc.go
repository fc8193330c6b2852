// Package server holds the HTTP server configuration.
//
// The Config struct defines the HTTP port, the API key guarding every
// route, the request body limit and whether Prometheus metrics are exposed.
// It is embedded by core/config and read by the start command.
package server
