package sqlite

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rmed/receipt-keeper/internal/migrate"
	"github.com/rmed/receipt-keeper/internal/store"
	"github.com/stretchr/testify/require"
)

// NewTestStore returns an opened store backed by a file in a temporary
// directory. It is not migrated.
func NewTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s := New(filepath.Join(t.TempDir(), store.DefaultDBFile), nil)
	require.NoError(t, s.Open())
	t.Cleanup(func() { s.Close() })
	return s
}

// NewMigratedStore returns an opened store at the latest schema version.
func NewMigratedStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s := NewTestStore(t)
	_, err := s.Migrate(context.Background())
	require.NoError(t, err)
	return s
}

func TestMigrationsRegistry(t *testing.T) {
	t.Parallel()

	reg := Migrations()
	require.NoError(t, reg.Validate())
	require.Equal(t, []migrate.Version{1, 2}, reg.Versions())

	// callers get a copy
	reg[0].Statements[0] = "DROP TABLE receipts"
	reg[0].Version = 99
	again := Migrations()
	require.Equal(t, migrate.Version(1), again[0].Version)
	require.Contains(t, again[0].Statements[0], "CREATE TABLE receipts")
}

func TestMigrateFreshStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTestStore(t)

	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	require.Equal(t, store.StateUninitialized, state)

	v, err := s.SchemaVersion(ctx)
	require.NoError(t, err)
	require.Equal(t, migrate.Uninitialized, v)

	v, err = s.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, Migrations().Latest(), v)

	state, err = s.CheckState(ctx)
	require.NoError(t, err)
	require.Equal(t, store.StateReady, state)

	var idx int
	_, err = s.QueryScalar(ctx, &idx, `SELECT COUNT(*) FROM sqlite_master WHERE type='index' AND name='receipts_date_paid_idx'`)
	require.NoError(t, err)
	require.Equal(t, 1, idx)

	receipts, err := s.ListReceipts(ctx, store.ReceiptFilter{})
	require.NoError(t, err)
	require.Empty(t, receipts)
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewMigratedStore(t)

	v, err := s.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, migrate.Version(2), v)

	var rows int
	_, err = s.QueryScalar(ctx, &rows, `SELECT COUNT(*) FROM `+migrate.RevisionTable)
	require.NoError(t, err)
	require.Equal(t, 1, rows)
}

func TestCheckStateBehindAndAhead(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTestStore(t)

	// apply only the first migration
	v, err := migrate.New(Migrations()[:1]).Migrate(ctx, s)
	require.NoError(t, err)
	require.Equal(t, migrate.Version(1), v)

	state, err := s.CheckState(ctx)
	require.NoError(t, err)
	require.Equal(t, store.StateBehind, state)

	_, err = s.Exec(ctx, `UPDATE `+migrate.RevisionTable+` SET version = 50`)
	require.NoError(t, err)

	state, err = s.CheckState(ctx)
	require.NoError(t, err)
	require.Equal(t, store.StateAhead, state)

	// a newer schema is left alone
	v, err = s.Migrate(ctx)
	require.NoError(t, err)
	require.Equal(t, migrate.Version(50), v)
}

func TestClosedStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewTestStore(t)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	state, err := s.CheckState(ctx)
	require.Error(t, err)
	require.Equal(t, store.StateMissing, state)

	_, err = s.Migrate(ctx)
	require.ErrorIs(t, err, migrate.ErrConnection)
}
