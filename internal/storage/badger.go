package storage

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/dgraph-io/badger/v3"
)

// BadgerConfig contains Badger tuning parameters. The defaults are sized
// for a handful of small keys rather than a server workload.
type BadgerConfig struct {
	// CacheSize is the block cache size in bytes.
	CacheSize int64

	// ValueLogFileSize is the max value log file size in bytes.
	ValueLogFileSize int64

	// MemTableSize is the memtable size in bytes.
	MemTableSize int64

	// NumMemtables is the number of memtables.
	NumMemtables int

	// ValueThreshold keeps values up to this size in the LSM tree. Badger
	// refuses to open when it exceeds 15% of MemTableSize.
	ValueThreshold int64

	// SyncWrites fsyncs after each write so a credential survives a crash.
	SyncWrites bool

	// GCThreshold is the discard ratio passed to RunValueLogGC on close.
	GCThreshold float64
}

// DefaultBadgerConfig returns the default Badger configuration.
func DefaultBadgerConfig() BadgerConfig {
	return BadgerConfig{
		CacheSize:        1 << 20,  // 1MB
		ValueLogFileSize: 16 << 20, // 16MB
		MemTableSize:     4 << 20,  // 4MB
		NumMemtables:     1,
		ValueThreshold:   64 << 10, // 64KB
		SyncWrites:       true,
		GCThreshold:      0.5,
	}
}

// BadgerKV implements KV on an embedded Badger database.
type BadgerKV struct {
	db     *badger.DB
	cfg    BadgerConfig
	logger *slog.Logger
	closed atomic.Bool
}

// NewBadgerKV opens (or creates) a Badger database in dir.
//
// Badger holds an exclusive directory lock, so a second process opening
// the same dir fails here; callers fall back to memory-only operation.
func NewBadgerKV(dir string, cfg BadgerConfig, logger *slog.Logger) (*BadgerKV, error) {
	if dir == "" {
		return nil, fmt.Errorf("badger: dir is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = &badgerLogger{logger: logger}
	opts.BlockCacheSize = cfg.CacheSize
	opts.ValueLogFileSize = cfg.ValueLogFileSize
	opts.MemTableSize = cfg.MemTableSize
	opts.NumMemtables = cfg.NumMemtables
	if cfg.ValueThreshold > 0 {
		opts.ValueThreshold = cfg.ValueThreshold
	}
	opts.SyncWrites = cfg.SyncWrites

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("badger: open db: %w", err)
	}

	logger.Debug("badger store opened", "dir", dir)

	return &BadgerKV{db: db, cfg: cfg, logger: logger}, nil
}

// Get retrieves a value by key.
func (b *BadgerKV) Get(ctx context.Context, key string) ([]byte, error) {
	if err := b.check(ctx); err != nil {
		return nil, err
	}

	var value []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			if errors.Is(err, badger.ErrKeyNotFound) {
				return ErrKeyNotFound
			}
			return err
		}
		value, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		return nil, err
	}
	return value, nil
}

// Set stores a key-value pair.
func (b *BadgerKV) Set(ctx context.Context, key string, value []byte) error {
	if err := b.check(ctx); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), value)
	})
}

// Delete removes a key. Deleting a missing key is not an error.
func (b *BadgerKV) Delete(ctx context.Context, key string) error {
	if err := b.check(ctx); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Close runs one value-log GC pass and closes the database.
func (b *BadgerKV) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return nil
	}

	if err := b.db.RunValueLogGC(b.cfg.GCThreshold); err != nil && !errors.Is(err, badger.ErrNoRewrite) {
		b.logger.Debug("badger value log gc skipped", "error", err)
	}

	if err := b.db.Close(); err != nil {
		return fmt.Errorf("badger: close db: %w", err)
	}
	return nil
}

func (b *BadgerKV) check(ctx context.Context) error {
	if b.closed.Load() {
		return ErrClosed
	}
	return ctx.Err()
}

// badgerLogger adapts slog.Logger to Badger's Logger interface.
// Badger's info chatter is demoted to debug so the CLI stays quiet.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}
