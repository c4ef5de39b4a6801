// Package sqlite provides the SQLite-backed ads bridge storage implementation.
package sqlite

import (
	"database/sql"
	"path/filepath"
	"strings"
	"sync"
	"time"

	platformerrors "github.com/louisbranch/adsbridge/internal/platform/errors"
	"github.com/louisbranch/adsbridge/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/adsbridge/internal/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

// DefaultSweepInterval is the minimum delay between opportunistic sweeps of
// expired cache entries.
const DefaultSweepInterval = time.Hour

// expiryGrace pads every entry's expiry to absorb clock and processing skew
// between the writer and subsequent readers.
const expiryGrace = 2 * time.Second

// errNotConfigured reports use of a nil or unopened store.
var errNotConfigured = platformerrors.New(platformerrors.CodeConfigInvalid, "storage is not configured")

// Options tune store behavior beyond the storage path.
type Options struct {
	// SweepInterval is the minimum delay between automatic sweeps of expired
	// entries. Zero uses DefaultSweepInterval.
	SweepInterval time.Duration
	// DisableAutoSweep turns off opportunistic sweeping. Explicit Sweep
	// calls still work.
	DisableAutoSweep bool
}

// Store persists cached responses, call logs, users, and config in SQLite.
type Store struct {
	sqlDB         *sql.DB
	now           func() time.Time
	sweepInterval time.Duration
	autoSweep     bool

	mu        sync.Mutex
	lastSweep time.Time
}

func toMillis(value time.Time) int64 {
	return value.UTC().UnixMilli()
}

func fromMillis(value int64) time.Time {
	return time.UnixMilli(value).UTC()
}

// Open opens a SQLite store with default options and applies embedded
// migrations.
func Open(path string) (*Store, error) {
	return OpenWithOptions(path, Options{})
}

// OpenWithOptions opens a SQLite store at the provided path and applies
// embedded migrations.
func OpenWithOptions(path string, opts Options) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, platformerrors.New(platformerrors.CodeConfigInvalid, "storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "open sqlite db", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "ping sqlite db", err)
	}
	if err := sqlitemigrate.Apply(sqlDB, migrations.FS); err != nil {
		_ = sqlDB.Close()
		return nil, platformerrors.Wrap(platformerrors.CodeStorageFailure, "run migrations", err)
	}

	interval := opts.SweepInterval
	if interval <= 0 {
		interval = DefaultSweepInterval
	}
	return &Store{
		sqlDB:         sqlDB,
		now:           time.Now,
		sweepInterval: interval,
		autoSweep:     !opts.DisableAutoSweep,
	}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}
