// Package logger provides structured logging for the SecureNotes client.
//
// It wraps log/slog behind a small Logger interface:
//
//   - logger.go: handler construction and the dynamic global level
//   - context.go: context propagation of the logger and request IDs
//   - redact.go: masking of bearer credentials and other secrets
//
// The CLI logs to stderr in text format at warn level unless --verbose
// is given; diagnostics such as persistence failures surface only here.
package logger
