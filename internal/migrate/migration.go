package migrate

import (
	"fmt"

	"github.com/hashicorp/go-multierror"
)

// Version is the schema version stored inside a datastore.
// It equals the version of the last migration fully applied to it.
type Version int

// Uninitialized is the version of a store that has no revision table yet.
// Every real migration is newer than it.
const Uninitialized Version = 0

// Migration is one shipped schema change. Its statements run as a single
// transaction. A released migration must never be edited; add a new one.
type Migration struct {
	Version     Version
	Description string
	Statements  []string
}

// Registry is the ordered list of every migration known to the binary.
type Registry []Migration

// Validate reports every problem with the registry: empty, out of order,
// duplicated or non-positive versions, and migrations with no statements.
func (r Registry) Validate() error {
	if len(r) == 0 {
		return fmt.Errorf("%w: registry is empty", ErrConfiguration)
	}

	var problems *multierror.Error
	seen := make(map[Version]bool, len(r))
	for i, m := range r {
		if m.Version <= Uninitialized {
			problems = multierror.Append(problems, fmt.Errorf("migration at index %d: version %d must be positive", i, m.Version))
		}
		if seen[m.Version] {
			problems = multierror.Append(problems, fmt.Errorf("migration at index %d: duplicate version %d", i, m.Version))
		}
		seen[m.Version] = true
		if i > 0 && m.Version < r[i-1].Version {
			problems = multierror.Append(problems, fmt.Errorf("migration at index %d: version %d follows %d", i, m.Version, r[i-1].Version))
		}
		if len(m.Statements) == 0 {
			problems = multierror.Append(problems, fmt.Errorf("migration %d has no statements", m.Version))
		}
	}
	if err := problems.ErrorOrNil(); err != nil {
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	}
	return nil
}

// MustValidate panics if the registry is invalid.
// It is meant for registries declared as package variables.
func (r Registry) MustValidate() Registry {
	if err := r.Validate(); err != nil {
		panic(err)
	}
	return r
}

// Versions returns the version of every migration, in registry order.
func (r Registry) Versions() []Version {
	versions := make([]Version, 0, len(r))
	for _, m := range r {
		versions = append(versions, m.Version)
	}
	return versions
}

// Latest returns the highest version in the registry,
// or Uninitialized if the registry is empty.
func (r Registry) Latest() Version {
	if len(r) == 0 {
		return Uninitialized
	}
	return r[len(r)-1].Version
}

// Pending returns the migrations newer than current, in ascending order.
func (r Registry) Pending(current Version) Registry {
	var pending Registry
	for _, m := range r {
		if m.Version > current {
			pending = append(pending, m)
		}
	}
	return pending
}
