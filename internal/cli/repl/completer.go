package repl

import (
	"sort"
	"strings"
)

// builtins are handled by the REPL itself.
var builtins = []string{"help", "history", "exit", "quit"}

// Completer suggests commands for a typed prefix.
type Completer struct {
	commands []string
	roots    map[string]bool
}

// NewCompleter creates a Completer over command paths like "notes list".
func NewCompleter(commands []string) *Completer {
	c := &Completer{roots: make(map[string]bool)}
	seen := make(map[string]bool)
	for _, cmd := range append(append([]string{}, commands...), builtins...) {
		cmd = strings.TrimSpace(cmd)
		if cmd == "" || seen[cmd] {
			continue
		}
		seen[cmd] = true
		c.commands = append(c.commands, cmd)
		c.roots[strings.Fields(cmd)[0]] = true
	}
	sort.Strings(c.commands)
	return c
}

// Complete returns completion suggestions for the given prefix.
func (c *Completer) Complete(prefix string) []string {
	var suggestions []string
	for _, cmd := range c.commands {
		if strings.HasPrefix(cmd, prefix) {
			suggestions = append(suggestions, cmd)
		}
	}
	return suggestions
}

// Known reports whether word is a top-level command.
func (c *Completer) Known(word string) bool {
	return c.roots[word]
}

// Commands returns all known command paths, sorted.
func (c *Completer) Commands() []string {
	return c.commands
}
