package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rmed/receipt-keeper/internal/logger"
	"github.com/rmed/receipt-keeper/internal/migrate"
	"github.com/rmed/receipt-keeper/internal/store"
	_ "modernc.org/sqlite"
)

var (
	_ store.Store   = (*SQLiteStore)(nil)
	_ migrate.Store = (*SQLiteStore)(nil)
)

var errNotOpened = errors.New("database not opened")

// SQLiteStore implements the Store interface using modernc.org/sqlite.
type SQLiteStore struct {
	dbPath   string
	db       *sqlx.DB
	registry migrate.Registry
	log      logger.Logger
}

// New creates a new SQLiteStore. A nil logger discards all messages.
func New(dbPath string, log logger.Logger) *SQLiteStore {
	if log == nil {
		log = logger.NewNop()
	}
	return &SQLiteStore{
		dbPath:   dbPath,
		registry: Migrations(),
		log:      log,
	}
}

// Path returns the database file the store was created for.
func (s *SQLiteStore) Path() string {
	return s.dbPath
}

// Open opens the SQLite database with safe defaults.
// The file is created if it does not exist.
func (s *SQLiteStore) Open() error {
	db, err := sqlx.Open("sqlite", s.dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}

	// pragmas are per connection
	db.SetMaxOpenConns(1)

	// Apply safe defaults
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return fmt.Errorf("failed to set pragma %q: %w", pragma, err)
		}
	}

	s.db = db
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// Ping verifies the connection is usable.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	if s.db == nil {
		return errNotOpened
	}
	return s.db.PingContext(ctx)
}

// Exec runs a statement outside of any transaction.
func (s *SQLiteStore) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	if s.db == nil {
		return 0, errNotOpened
	}
	return execRows(s.db.ExecContext(ctx, query, args...))
}

// QueryScalar scans the first column of the first row into dest.
func (s *SQLiteStore) QueryScalar(ctx context.Context, dest any, query string, args ...any) (bool, error) {
	if s.db == nil {
		return false, errNotOpened
	}
	err := s.db.QueryRowxContext(ctx, query, args...).Scan(dest)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Atomic runs fn inside a transaction. The transaction is rolled back if
// fn returns an error.
func (s *SQLiteStore) Atomic(ctx context.Context, fn func(tx migrate.Execer) error) error {
	if s.db == nil {
		return errNotOpened
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(txExecer{tx: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// Migrate brings the database up to the latest schema version.
func (s *SQLiteStore) Migrate(ctx context.Context) (migrate.Version, error) {
	return migrate.New(s.registry, migrate.WithLogger(s.log)).Migrate(ctx, s)
}

// SchemaVersion returns the current schema version from the database.
// A database without a revision table reports migrate.Uninitialized.
func (s *SQLiteStore) SchemaVersion(ctx context.Context) (migrate.Version, error) {
	if s.db == nil {
		return migrate.Uninitialized, errNotOpened
	}
	return migrate.New(s.registry, migrate.WithLogger(s.log)).CurrentVersion(ctx, s)
}

// CheckState returns the current state of the datastore.
func (s *SQLiteStore) CheckState(ctx context.Context) (store.StoreState, error) {
	if s.db == nil {
		return store.StateMissing, errNotOpened
	}

	version, err := s.SchemaVersion(ctx)
	if err != nil {
		return store.StateUninitialized, fmt.Errorf("failed to get schema version: %w", err)
	}

	latest := s.registry.Latest()
	switch {
	case version == migrate.Uninitialized:
		return store.StateUninitialized, nil
	case version < latest:
		return store.StateBehind, nil
	case version > latest:
		return store.StateAhead, nil
	}
	return store.StateReady, nil
}

type txExecer struct {
	tx *sqlx.Tx
}

func (e txExecer) Exec(ctx context.Context, query string, args ...any) (int64, error) {
	return execRows(e.tx.ExecContext(ctx, query, args...))
}

func execRows(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
