// Package tokenstore holds the single current access token.
//
// The store is a write-through cache in front of a fallible storage.KV.
// Reads never fail and never return a value older than the last write in
// this process, even when every backend call errors.
package tokenstore
