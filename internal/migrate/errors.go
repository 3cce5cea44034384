package migrate

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration indicates an empty, unsorted or duplicated registry.
	// It is reported before the store is touched.
	ErrConfiguration = errors.New("invalid migration registry")

	// ErrConnection indicates the store handle could not be used.
	ErrConnection = errors.New("store unavailable")

	// ErrVersionRead indicates the revision table exists but its value
	// could not be read as a single integer.
	ErrVersionRead = errors.New("cannot read schema version")

	// ErrMigrationExecution indicates a migration failed and was rolled back.
	ErrMigrationExecution = errors.New("migration failed")
)

// ExecutionError reports the migration that failed and why.
// The stored version is left at the last migration that succeeded.
type ExecutionError struct {
	Version   Version // Migration that failed
	Statement int     // 1-based index of the failing statement, 0 if not statement specific
	Err       error   // Underlying error
}

// Error implements the error interface
func (e *ExecutionError) Error() string {
	if e.Statement > 0 {
		return fmt.Sprintf("migration %d: statement %d: %v", e.Version, e.Statement, e.Err)
	}
	return fmt.Sprintf("migration %d: %v", e.Version, e.Err)
}

// Unwrap returns the underlying error
func (e *ExecutionError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrMigrationExecution.
// The underlying error is still reachable through Unwrap.
func (e *ExecutionError) Is(target error) bool {
	return target == ErrMigrationExecution
}
