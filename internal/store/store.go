package store

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Defaults applied by Open when no option overrides them.
const (
	DefaultBusyTimeout = 10 * time.Second
	DefaultOpTimeout   = 15 * time.Second
)

// Store provides durable storage for the attendance ledger.
// Uses SQLite with WAL mode and a single connection, so writers are
// serialized and every write transaction starts with BEGIN IMMEDIATE.
type Store struct {
	db          *sql.DB
	loc         *time.Location
	busyTimeout time.Duration
	opTimeout   time.Duration
}

// Option configures a Store at Open time.
type Option func(*Store)

// WithLocation sets the zone in which timestamps are persisted and calendar
// days are derived. Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Store) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithBusyTimeout bounds how long SQLite waits on a locked database before
// failing with SQLITE_BUSY.
func WithBusyTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.busyTimeout = d
		}
	}
}

// WithOpTimeout bounds each store call, including time spent waiting for
// the single pooled connection.
func WithOpTimeout(d time.Duration) Option {
	return func(s *Store) {
		if d > 0 {
			s.opTimeout = d
		}
	}
}

// Open creates or opens a SQLite database at the given path.
// Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode for concurrent reads during writes
//   - NORMAL synchronous mode (balance durability/performance)
//   - a busy timeout for lock contention
//   - Foreign key enforcement
//
// This function is idempotent - safe to call multiple times.
func Open(path string, opts ...Option) (*Store, error) {
	s := &Store{
		loc:         time.Local,
		busyTimeout: DefaultBusyTimeout,
		opTimeout:   DefaultOpTimeout,
	}
	for _, opt := range opts {
		opt(s)
	}

	// _txlock=immediate takes the write lock at BEGIN, so a transaction that
	// reads the day's events and then inserts cannot interleave with another.
	// Foreign keys and busy timeout are repeated in the DSN so a replaced
	// connection gets them too.
	dsn := fmt.Sprintf("%s?_txlock=immediate&_foreign_keys=on&_busy_timeout=%d", path, s.busyTimeout.Milliseconds())
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// SQLite only supports one writer at a time, so limit connections.
	// This also keeps ":memory:" databases on a single shared connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	s.db = db

	if err := s.applyPragmas(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// DB returns the underlying sql.DB for direct queries.
// Use with caution - prefer using Store methods when available.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Location returns the zone used to derive calendar days.
func (s *Store) Location() *time.Location {
	return s.loc
}

// Checkpoint flushes the write-ahead log into the main database file so an
// external backup can copy a consistent file. Writes are not paused; the copy
// is a best-effort snapshot.
func (s *Store) Checkpoint(ctx context.Context) error {
	ctx, cancel := s.bound(ctx)
	defer cancel()

	var busy, logFrames, checkpointed int
	err := s.db.QueryRowContext(ctx, "PRAGMA wal_checkpoint(TRUNCATE)").Scan(&busy, &logFrames, &checkpointed)
	if err != nil {
		return fmt.Errorf("checkpoint: %w", err)
	}
	if busy != 0 {
		return fmt.Errorf("checkpoint: %w", ErrBusy)
	}
	return nil
}

// bound applies the per-operation timeout.
func (s *Store) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// applyPragmas sets required SQLite configuration.
func (s *Store) applyPragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		fmt.Sprintf("PRAGMA busy_timeout = %d", s.busyTimeout.Milliseconds()),
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := s.db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}

	return nil
}

// migrate applies the embedded goose migrations. Already-applied versions
// are skipped, so reopening an existing file is a no-op.
func migrate(ctx context.Context, db *sql.DB) error {
	fsys, err := fs.Sub(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("migrations fs: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectSQLite3, db, fsys)
	if err != nil {
		return fmt.Errorf("migration provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// verifyPragma checks that a pragma is set to the expected value.
// Used for testing.
func (s *Store) verifyPragma(name, expected string) error {
	var value string
	query := fmt.Sprintf("PRAGMA %s", name)
	if err := s.db.QueryRow(query).Scan(&value); err != nil {
		return fmt.Errorf("failed to query %s: %w", name, err)
	}
	if value != expected {
		return fmt.Errorf("%s = %q, expected %q", name, value, expected)
	}
	return nil
}
