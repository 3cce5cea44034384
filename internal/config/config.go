package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/ini.v1"
)

// DefaultFile is the configuration file name in the user's home directory.
const DefaultFile = ".receipt-keeper"

// EnvPrefix prefixes environment variables that override the file,
// e.g. RECEIPT_KEEPER_DB_PATH.
const EnvPrefix = "RECEIPT_KEEPER"

const (
	sectionDB = "DB"
	keyPath   = "path"
	keyDBPath = "db.path"
)

// Config holds the receipt keeper settings.
type Config struct {
	// Path of the configuration file.
	File string
	// DBPath is the database file. Empty means the default location.
	DBPath string
}

// DefaultPath returns the configuration file in the user's home directory.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to locate home directory: %w", err)
	}
	return filepath.Join(home, DefaultFile), nil
}

// Load reads the INI configuration file at path, creating it with an
// empty database path if it does not exist. Environment variables
// prefixed with EnvPrefix take precedence over the file.
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to check config file: %w", err)
		}
		empty := &Config{File: path}
		if err := empty.Save(); err != nil {
			return nil, fmt.Errorf("failed to create config file: %w", err)
		}
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	return &Config{
		File:   path,
		DBPath: v.GetString(keyDBPath),
	}, nil
}

// Save writes the configuration back to its file.
func (c *Config) Save() error {
	f := ini.Empty()
	f.Section(sectionDB).Key(keyPath).SetValue(c.DBPath)
	if err := f.SaveTo(c.File); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", c.File, err)
	}
	return nil
}
