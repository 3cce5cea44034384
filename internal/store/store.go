package store

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	DefaultDBFile = "receipts.db"
)

// CheckExists verifies if the datastore file exists.
// Returns true if the store exists, false otherwise.
func CheckExists(dbPath string) (bool, error) {
	info, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("failed to check store existence: %w", err)
	}
	if info.IsDir() {
		return false, fmt.Errorf("datastore path is a directory, expected file: %s", dbPath)
	}
	return true, nil
}

// GetStorePath returns the path to the datastore directory used when the
// configuration does not name a database. It is the current working directory.
func GetStorePath() string {
	return "."
}

// GetDBPath returns the database file to use. An empty configured path
// falls back to DefaultDBFile in the store directory.
func GetDBPath(configured string) string {
	if configured == "" {
		return filepath.Join(GetStorePath(), DefaultDBFile)
	}
	return configured
}
