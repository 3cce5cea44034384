package store

import (
	"context"

	"github.com/rmed/receipt-keeper/internal/migrate"
)

// StoreState represents the initialization state of the datastore.
type StoreState int

const (
	StateMissing       StoreState = iota // File doesn't exist
	StateUninitialized                   // File exists but no revision table
	StateBehind                          // Schema older than the registry
	StateAhead                           // Schema newer than the registry
	StateReady                           // Initialized and at the latest version
)

func (s StoreState) String() string {
	switch s {
	case StateMissing:
		return "missing"
	case StateUninitialized:
		return "uninitialized"
	case StateBehind:
		return "behind"
	case StateAhead:
		return "ahead"
	case StateReady:
		return "ready"
	}
	return "unknown"
}

// Store defines the receipt keeper datastore contract.
// A Store is owned by a single caller and is not safe for concurrent use.
type Store interface {
	// Open opens the datastore connection
	Open() error

	// Close closes the datastore connection
	Close() error

	// Migrate applies every outstanding migration and returns the resulting version
	Migrate(ctx context.Context) (migrate.Version, error)

	// CheckState returns the current state of the datastore
	CheckState(ctx context.Context) (StoreState, error)

	// SchemaVersion returns the current schema version from the database
	SchemaVersion(ctx context.Context) (migrate.Version, error)

	AddReceipt(ctx context.Context, r *Receipt) error
	GetReceipt(ctx context.Context, id int64) (*Receipt, error)
	ListReceipts(ctx context.Context, f ReceiptFilter) ([]Receipt, error)
	UpdateReceipt(ctx context.Context, r *Receipt) error
	DeleteReceipt(ctx context.Context, id int64) error
}
