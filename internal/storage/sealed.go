package storage

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/argon2"

	"github.com/yndnr/securenotes-go/pkg/crypto/adaptive"
)

var (
	// ErrSecretEmpty is returned when SealedKV is built without a secret.
	ErrSecretEmpty = errors.New("storage: encryption secret is empty")

	// ErrOpenFailed is returned when a stored value cannot be decrypted,
	// e.g. after the secret changed.
	ErrOpenFailed = errors.New("storage: stored value could not be decrypted")
)

// Argon2id parameters for deriving the sealing key from the passphrase.
const (
	SaltLength = 16

	argon2Time    = 3
	argon2Memory  = 64 * 1024
	argon2Threads = 4
)

// SealedKV encrypts values before handing them to the wrapped backend.
//
// Each stored value is salt(16) | sealed, where the salt feeds Argon2id.
// A store draws one salt when it is built and reuses the derived key for
// every write; values written under another salt are opened by deriving
// that key once and caching it. The storage key is bound as additional
// data, so a ciphertext copied to another key does not open.
type SealedKV struct {
	inner  KV
	secret []byte
	alg    adaptive.Algorithm

	salt   []byte
	sealer *adaptive.Sealer

	mu      sync.Mutex
	openers map[string]*adaptive.Sealer
}

// NewSealedKV derives a 256-bit key from secret with Argon2id and seals
// with the host's preferred AEAD.
func NewSealedKV(inner KV, secret []byte) (*SealedKV, error) {
	return newSealedKV(inner, secret, adaptive.Preferred())
}

func newSealedKV(inner KV, secret []byte, alg adaptive.Algorithm) (*SealedKV, error) {
	if len(secret) == 0 {
		return nil, ErrSecretEmpty
	}

	salt := make([]byte, SaltLength)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("storage: generate salt: %w", err)
	}

	s := &SealedKV{
		inner:   inner,
		secret:  append([]byte(nil), secret...),
		alg:     alg,
		salt:    salt,
		openers: make(map[string]*adaptive.Sealer),
	}
	sealer, err := s.derive(salt)
	if err != nil {
		return nil, err
	}
	s.sealer = sealer
	s.openers[string(salt)] = sealer
	return s, nil
}

// derive builds a sealer keyed by Argon2id(secret, salt).
func (s *SealedKV) derive(salt []byte) (*adaptive.Sealer, error) {
	key := argon2.IDKey(s.secret, salt, argon2Time, argon2Memory, argon2Threads, adaptive.KeySize)
	sealer, err := adaptive.NewSealer(key, s.alg)
	if err != nil {
		return nil, fmt.Errorf("storage: init cipher: %w", err)
	}
	return sealer, nil
}

// opener returns the sealer for salt, deriving it on first use.
func (s *SealedKV) opener(salt []byte) (*adaptive.Sealer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if sealer, ok := s.openers[string(salt)]; ok {
		return sealer, nil
	}
	sealer, err := s.derive(salt)
	if err != nil {
		return nil, err
	}
	s.openers[string(salt)] = sealer
	return sealer, nil
}

// Get opens the value stored under key.
func (s *SealedKV) Get(ctx context.Context, key string) ([]byte, error) {
	sealed, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if len(sealed) < SaltLength {
		return nil, ErrOpenFailed
	}
	sealer, err := s.opener(sealed[:SaltLength])
	if err != nil {
		return nil, err
	}
	plaintext, err := sealer.Open(sealed[SaltLength:], []byte(key))
	if err != nil {
		return nil, ErrOpenFailed
	}
	return plaintext, nil
}

// Set seals value with a fresh random nonce and stores it.
func (s *SealedKV) Set(ctx context.Context, key string, value []byte) error {
	sealed, err := s.sealer.Seal(value, []byte(key))
	if err != nil {
		return fmt.Errorf("storage: seal: %w", err)
	}
	out := make([]byte, 0, SaltLength+len(sealed))
	out = append(out, s.salt...)
	out = append(out, sealed...)
	return s.inner.Set(ctx, key, out)
}

// Delete removes key from the wrapped backend.
func (s *SealedKV) Delete(ctx context.Context, key string) error {
	return s.inner.Delete(ctx, key)
}

// Close closes the wrapped backend.
func (s *SealedKV) Close() error {
	return s.inner.Close()
}
