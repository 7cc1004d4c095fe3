// Package config provides server configuration for Strand.
//
// This package defines the server configuration structure and validation:
//
//   - spec.go: ServerConfig struct definition
//   - default.go: Default configuration values
//   - verify.go: Business validation (addresses, limits)
//
// Configuration is loaded via internal/infra/confloader and supports
// multiple sources: files and environment variables.
package config
