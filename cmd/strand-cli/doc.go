// Package main provides the entry point for strand-cli.
//
// The CLI tool provides command-line access to a Strand server:
//
//   - Key-value operations (SET, GET, expiry)
//   - List operations (push, range, pop, blocking pop)
//   - Interactive prompt with history and completion
//
// Usage:
//
//	strand-cli [flags] [COMMAND [args...]]
//	strand-cli -s localhost:6379 SET greeting hello
//	strand-cli -s localhost:6379
//
// Without a command, the CLI drops into interactive mode.
package main
