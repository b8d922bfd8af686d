package tokenstore

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/yndnr/securenotes-go/internal/storage"
	"github.com/yndnr/securenotes-go/internal/telemetry/logger"
	"github.com/yndnr/securenotes-go/pkg/token"
)

// DefaultKey is the fixed backend key the access token is stored under.
const DefaultKey = "secure_notes_access_token"

// backendTimeout bounds each backend call so a hung Redis cannot stall a
// command.
const backendTimeout = 2 * time.Second

// Store is the token store. The zero value is not usable; call New.
type Store struct {
	ctx     context.Context
	backend storage.KV
	key     string
	logger  logger.Logger

	mu     sync.RWMutex
	token  string
	loaded bool
}

// New creates a store over backend. A nil backend keeps the token in
// memory only.
//
// ctx scopes every backend call and supplies the logger; once it is
// cancelled the backend is no longer consulted and the cache alone
// answers.
func New(ctx context.Context, backend storage.KV, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		ctx:     ctx,
		backend: backend,
		key:     key,
		logger:  logger.FromContext(ctx).With("component", "tokenstore"),
	}
}

// Get returns the current token and whether one is present.
//
// The first call reads the backend; afterwards the cache answers. A failed
// backend read reports absent and is retried on the next call.
func (s *Store) Get() (string, bool) {
	s.mu.RLock()
	if s.loaded {
		tok := s.token
		s.mu.RUnlock()
		return tok, tok != ""
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.loaded {
		return s.token, s.token != ""
	}
	if s.backend == nil {
		s.loaded = true
		return "", false
	}

	ctx, cancel := context.WithTimeout(s.ctx, backendTimeout)
	defer cancel()

	raw, err := s.backend.Get(ctx, s.key)
	switch {
	case err == nil:
		s.token = string(raw)
		s.loaded = true
		s.logger.Debug("token loaded", "fingerprint", token.Fingerprint(s.token))
	case errors.Is(err, storage.ErrKeyNotFound):
		s.token = ""
		s.loaded = true
	default:
		s.logger.Warn("token read failed, treating as absent", "error", err)
		return "", false
	}
	return s.token, s.token != ""
}

// Set replaces the token. The empty string is treated as Clear.
// Backend failures are logged; the cached value is updated regardless.
func (s *Store) Set(tok string) {
	if tok == "" {
		s.Clear()
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	changed := !token.Equal(s.token, tok)
	s.token = tok
	s.loaded = true
	s.logger.Debug("token set", "fingerprint", token.Fingerprint(tok), "changed", changed)

	if s.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, backendTimeout)
	defer cancel()
	if err := s.backend.Set(ctx, s.key, []byte(tok)); err != nil {
		s.logger.Warn("token write failed, keeping in memory only", "error", err)
	}
}

// Clear removes the token. Idempotent.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = ""
	s.loaded = true

	if s.backend == nil {
		return
	}
	ctx, cancel := context.WithTimeout(s.ctx, backendTimeout)
	defer cancel()
	if err := s.backend.Delete(ctx, s.key); err != nil {
		s.logger.Warn("token delete failed", "error", err)
	}
}

// Close releases the backend.
func (s *Store) Close() error {
	if s.backend == nil {
		return nil
	}
	return s.backend.Close()
}
