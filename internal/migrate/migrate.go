package migrate

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/rmed/receipt-keeper/internal/logger"
)

// RevisionTable holds the schema version of a store in its single row.
// Migration 1 must create it and seed that row.
const RevisionTable = "__revision"

const (
	probeRevisionSQL  = `SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name=?`
	countRevisionSQL  = `SELECT COUNT(*) FROM ` + RevisionTable
	selectRevisionSQL = `SELECT version FROM ` + RevisionTable
	updateRevisionSQL = `UPDATE ` + RevisionTable + ` SET version = ?`
)

// Execer runs a single statement and returns the number of rows it affected.
type Execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// Store is the storage access the runner needs.
// The caller owns the handle and must not use it concurrently with Migrate.
type Store interface {
	Execer

	// QueryScalar scans the first column of the first row into dest.
	// It returns false if the query produced no rows.
	QueryScalar(ctx context.Context, dest any, query string, args ...any) (bool, error)

	// Atomic runs fn in a transaction, committing only if fn returns nil.
	Atomic(ctx context.Context, fn func(tx Execer) error) error

	// Ping verifies the handle is usable.
	Ping(ctx context.Context) error
}

// Runner applies a registry of migrations to stores.
type Runner struct {
	registry Registry
	log      logger.Logger
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger used to report progress.
func WithLogger(l logger.Logger) Option {
	return func(r *Runner) {
		r.log = l
	}
}

// New returns a runner for the registry. The registry is validated on
// every call to Migrate, not here.
func New(registry Registry, opts ...Option) *Runner {
	r := &Runner{
		registry: registry,
		log:      logger.Default,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Migrate brings the store up to the latest version in the registry and
// returns the version the store is left at.
//
// Each outstanding migration runs in its own transaction together with the
// update of the revision table, so the stored version never names a
// migration that did not commit. On failure the returned version is the
// last one that did, and no later migration is attempted.
func Migrate(ctx context.Context, s Store, registry Registry) (Version, error) {
	return New(registry).Migrate(ctx, s)
}

// Migrate is the Runner form of the package level Migrate.
func (r *Runner) Migrate(ctx context.Context, s Store) (Version, error) {
	if err := r.registry.Validate(); err != nil {
		return Uninitialized, err
	}
	if err := s.Ping(ctx); err != nil {
		return Uninitialized, fmt.Errorf("%w: %w", ErrConnection, err)
	}

	current, err := r.CurrentVersion(ctx, s)
	if err != nil {
		return Uninitialized, err
	}

	latest := r.registry.Latest()
	if current > latest {
		r.log.Warn("schema version %d is newer than this binary knows (%d)", current, latest)
		return current, nil
	}

	pending := r.registry.Pending(current)
	if len(pending) == 0 {
		return current, nil
	}

	r.log.Info("bringing up %d schema migrations (version %d to %d)", len(pending), current, latest)
	for _, m := range pending {
		r.log.Debug("applying migration %d: %s", m.Version, m.Description)
		if err := r.apply(ctx, s, m); err != nil {
			r.log.Error("migration %d failed, schema left at version %d: %v", m.Version, current, err)
			return current, err
		}
		current = m.Version
	}
	r.log.Info("schema at version %d", current)

	return current, nil
}

// CurrentVersion reads the stored version, returning Uninitialized when
// the revision table does not exist.
func (r *Runner) CurrentVersion(ctx context.Context, s Store) (Version, error) {
	var tables int
	if _, err := s.QueryScalar(ctx, &tables, probeRevisionSQL, RevisionTable); err != nil {
		return Uninitialized, fmt.Errorf("%w: probing %s: %w", ErrVersionRead, RevisionTable, err)
	}
	if tables == 0 {
		return Uninitialized, nil
	}

	var rows int
	if _, err := s.QueryScalar(ctx, &rows, countRevisionSQL); err != nil {
		return Uninitialized, fmt.Errorf("%w: %w", ErrVersionRead, err)
	}
	if rows != 1 {
		return Uninitialized, fmt.Errorf("%w: %s has %d rows, want 1", ErrVersionRead, RevisionTable, rows)
	}

	var v sql.NullInt64
	if _, err := s.QueryScalar(ctx, &v, selectRevisionSQL); err != nil {
		return Uninitialized, fmt.Errorf("%w: %w", ErrVersionRead, err)
	}
	if !v.Valid || v.Int64 <= int64(Uninitialized) {
		return Uninitialized, fmt.Errorf("%w: %s holds invalid version %v", ErrVersionRead, RevisionTable, v)
	}

	return Version(v.Int64), nil
}

func (r *Runner) apply(ctx context.Context, s Store, m Migration) error {
	err := s.Atomic(ctx, func(tx Execer) error {
		for i, stmt := range m.Statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return &ExecutionError{Version: m.Version, Statement: i + 1, Err: err}
			}
		}

		n, err := tx.Exec(ctx, updateRevisionSQL, int64(m.Version))
		if err != nil {
			return &ExecutionError{Version: m.Version, Err: fmt.Errorf("recording version: %w", err)}
		}
		if n != 1 {
			return &ExecutionError{Version: m.Version, Err: fmt.Errorf("recording version: %s has %d rows, want 1", RevisionTable, n)}
		}
		return nil
	})
	if err == nil {
		return nil
	}

	var execErr *ExecutionError
	if errors.As(err, &execErr) {
		return err
	}
	// begin or commit failed
	return &ExecutionError{Version: m.Version, Err: err}
}
