// Package storage provides the durable key-value backends behind the
// client's token store.
//
// All backends implement KV, a deliberately small and fallible surface:
//
//   - BadgerKV: embedded on-disk store (default)
//   - RedisKV: shared store reachable over the network
//   - MemoryKV: process-local map, also used to simulate failures in tests
//   - SealedKV: wrapper that encrypts values at rest
//
// Callers must treat every error as "storage unavailable"; the token store
// logs and discards them.
package storage
