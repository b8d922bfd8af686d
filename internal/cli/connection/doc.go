// Package connection is the request dispatcher for the notes API.
//
// Every outgoing request passes through HTTPClient, which:
//
//   - resolves paths against a fixed base URL with a bounded timeout
//   - attaches the bearer credential from the token store at send time
//   - on 401, clears the token store and fires the registered Notifier
//   - classifies failures as *StatusError or *TransportError
//
// The client never retries.
package connection
