// Package main provides the entry point for strand-server.
//
// The server is the Strand service process:
//
//   - RESP wire protocol over TCP for key-value and list operations
//   - Optional Prometheus metrics endpoint with health check
//   - Configuration via YAML file and STRAND_ environment variables
//   - Hot log-level reload on config file changes
//
// Usage:
//
//	strand-server [flags]
//	strand-server --config /path/to/config.yaml
package main
