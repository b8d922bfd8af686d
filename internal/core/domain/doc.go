// Package domain defines the core domain models for the SecureNotes client.
//
// Domain models are plain value objects without IO dependencies:
//
//   - Note: a remote note plus the display helpers the CLI renders
//   - NoteInput: validated create/update payload
//   - Credentials / AuthResponse: login and signup exchange
//   - Errors: coded domain errors
package domain
