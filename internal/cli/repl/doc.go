// Package repl is the interactive shell: a line loop that feeds each line
// back through the CLI, with persisted history and command suggestions.
package repl
