package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/maloquacious/semver"
	"github.com/rmed/receipt-keeper/internal/config"
	"github.com/rmed/receipt-keeper/internal/logger"
	"github.com/rmed/receipt-keeper/internal/migrate"
	"github.com/rmed/receipt-keeper/internal/store"
	"github.com/rmed/receipt-keeper/internal/store/sqlite"
	"github.com/spf13/cobra"
)

var (
	version   = semver.Version{Minor: 1, PreRelease: "alpha", Build: semver.Commit()}
	buildDate = ""
)

var errNotReady = errors.New("datastore is not ready")

// app carries the global flags and the resources shared by commands.
type app struct {
	configFile string
	dbPath     string
	verbose    bool

	log logger.Logger
	cfg *config.Config
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:          "receiptkeeper",
		Short:        "Record and browse purchase receipts",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	// Global flags
	rootCmd.PersistentFlags().StringVar(&a.configFile, "config", "", "configuration file (default ~/"+config.DefaultFile+")")
	rootCmd.PersistentFlags().StringVar(&a.dbPath, "db", "", "database file, overrides the configuration")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "log debug messages")

	versionCmd := &cobra.Command{
		Use:   "version",
		Short: "Print the application and schema versions",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "receiptkeeper %s (schema %d)", version.String(), sqlite.Migrations().Latest())
			if buildDate != "" {
				fmt.Fprintf(cmd.OutOrStdout(), " built %s", buildDate)
			}
			fmt.Fprintln(cmd.OutOrStdout())
			return nil
		},
	}

	rootCmd.AddCommand(versionCmd, a.dbCmd(), a.configCmd(), a.receiptCmd())
	return rootCmd
}

// setup loads the configuration and builds the logger.
func (a *app) setup() error {
	a.log = logger.NewConsole(a.verbose)

	path := a.configFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}
	a.cfg = cfg
	return nil
}

// databasePath resolves the database file from the flag, the
// configuration and the default location, in that order.
func (a *app) databasePath() string {
	if a.dbPath != "" {
		return a.dbPath
	}
	return store.GetDBPath(a.cfg.DBPath)
}

// openStore opens the datastore. When mustExist is set a missing file is
// an error instead of being created.
func (a *app) openStore(mustExist bool) (*sqlite.SQLiteStore, error) {
	dbPath := a.databasePath()
	if mustExist {
		exists, err := store.CheckExists(dbPath)
		if err != nil {
			return nil, err
		}
		if !exists {
			return nil, fmt.Errorf("datastore %s does not exist, run 'db create' first", dbPath)
		}
	}

	s := sqlite.New(dbPath, a.log)
	if err := s.Open(); err != nil {
		return nil, err
	}
	return s, nil
}

// openMigrated opens the datastore and brings its schema up to date.
// Nothing may run against a store that failed to migrate.
func (a *app) openMigrated(ctx context.Context) (*sqlite.SQLiteStore, error) {
	s, err := a.openStore(false)
	if err != nil {
		return nil, err
	}
	if _, err := s.Migrate(ctx); err != nil {
		s.Close()
		return nil, describeMigrateError(err)
	}
	return s, nil
}

// describeMigrateError names the kind of migration failure for the user.
func describeMigrateError(err error) error {
	var execErr *migrate.ExecutionError
	switch {
	case errors.As(err, &execErr):
		return fmt.Errorf("startup aborted, migration %d could not be applied: %w", execErr.Version, err)
	case errors.Is(err, migrate.ErrConfiguration):
		return fmt.Errorf("startup aborted, this build ships an invalid migration registry: %w", err)
	case errors.Is(err, migrate.ErrConnection):
		return fmt.Errorf("startup aborted, cannot use the datastore: %w", err)
	case errors.Is(err, migrate.ErrVersionRead):
		return fmt.Errorf("startup aborted, the stored schema version is unreadable: %w", err)
	}
	return fmt.Errorf("startup aborted: %w", err)
}
