// Package store implements the in-memory key space: string values with
// optional millisecond expiration, list values with push, range, and pop
// operations, and blocking pops that park until another connection pushes.
package store
