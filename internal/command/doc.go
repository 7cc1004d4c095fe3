// Package command maps decoded protocol values onto typed, validated
// commands.
//
// Parse is the single validation boundary: a Command that exists is a
// Command whose arguments were checked. The store engine can therefore
// execute without re-validating shapes.
package command
