// Package repl provides the interactive mode for strand-cli.
package repl

import "strings"

// Completer provides command completion for the REPL.
type Completer struct {
	commands []string
}

// NewCompleter creates a new Completer.
func NewCompleter() *Completer {
	return &Completer{
		commands: []string{
			"PING", "ECHO",
			"SET", "GET",
			"LPUSH", "RPUSH", "LRANGE", "LLEN",
			"LPOP", "RPOP", "BLPOP", "BRPOP",
			"help", "exit", "quit",
		},
	}
}

// Complete returns completion suggestions for the given prefix.
// Matching is case-insensitive.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	upper := strings.ToUpper(prefix)
	for _, cmd := range c.commands {
		if strings.HasPrefix(strings.ToUpper(cmd), upper) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}
