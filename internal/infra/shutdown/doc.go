// Package shutdown provides graceful shutdown for Strand.
//
// This package handles process termination signals:
//
//   - Signal handling (SIGINT, SIGTERM)
//   - Timeout-based forced shutdown
//   - Cleanup callback registration, executed in reverse order
package shutdown
