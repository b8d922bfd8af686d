package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Common errors.
var (
	ErrKeyNotFound = errors.New("storage: key not found")
	ErrClosed      = errors.New("storage: backend closed")
	ErrUnavailable = errors.New("storage: backend unavailable")
)

// Backend names accepted in configuration.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// KV is a fallible key-value backend.
//
// Implementations must be safe for concurrent use. Get returns
// ErrKeyNotFound when the key does not exist.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Config selects and configures a backend.
type Config struct {
	// Backend is one of "badger", "redis", "memory". Default: "badger".
	Backend string

	// Dir is the Badger data directory.
	Dir string

	// EncryptionKey, when non-empty, wraps the backend in SealedKV.
	EncryptionKey string

	Badger BadgerConfig
	Redis  RedisConfig
}

// DefaultDir returns ~/.securenotes/session.
func DefaultDir() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".securenotes", "session")
}

// DefaultConfig returns the default backend configuration.
func DefaultConfig() Config {
	return Config{
		Backend: BackendBadger,
		Dir:     DefaultDir(),
		Badger:  DefaultBadgerConfig(),
		Redis:   DefaultRedisConfig(),
	}
}

// Open builds the configured backend.
func Open(cfg Config, logger *slog.Logger) (KV, error) {
	if logger == nil {
		logger = slog.Default()
	}

	var (
		kv  KV
		err error
	)
	switch strings.ToLower(cfg.Backend) {
	case "", BackendBadger:
		kv, err = NewBadgerKV(cfg.Dir, cfg.Badger, logger)
	case BackendRedis:
		kv, err = NewRedisKV(cfg.Redis)
	case BackendMemory:
		kv = NewMemoryKV()
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}

	if cfg.EncryptionKey != "" {
		sealed, err := NewSealedKV(kv, []byte(cfg.EncryptionKey))
		if err != nil {
			kv.Close()
			return nil, err
		}
		kv = sealed
	}

	return kv, nil
}
