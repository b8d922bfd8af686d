// Package session answers "is a session active" for the CLI.
package session
