package main

import (
	"fmt"

	"github.com/rmed/receipt-keeper/internal/store"
	"github.com/rmed/receipt-keeper/internal/store/sqlite"
	"github.com/spf13/cobra"
)

func (a *app) dbCmd() *cobra.Command {
	dbCmd := &cobra.Command{
		Use:   "db",
		Short: "Database management commands",
	}

	dbCreateCmd := &cobra.Command{
		Use:   "create",
		Short: "Create and initialize the datastore",
		Args:  cobra.NoArgs,
		RunE:  a.runDBCreate,
	}
	dbUpgradeCmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Apply migrations to current schema version",
		Args:  cobra.NoArgs,
		RunE:  a.runDBUpgrade,
	}
	dbVerifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Verify schema integrity and version",
		Args:  cobra.NoArgs,
		RunE:  a.runDBVerify,
	}
	dbMigrationsCmd := &cobra.Command{
		Use:   "migrations",
		Short: "List the migrations known to this build",
		Args:  cobra.NoArgs,
		RunE:  a.runDBMigrations,
	}

	dbCmd.AddCommand(dbCreateCmd, dbUpgradeCmd, dbVerifyCmd, dbMigrationsCmd)
	return dbCmd
}

func (a *app) runDBCreate(cmd *cobra.Command, args []string) error {
	dbPath := a.databasePath()
	exists, err := store.CheckExists(dbPath)
	if err != nil {
		return err
	}
	if exists {
		return fmt.Errorf("datastore %s already exists, use 'db upgrade'", dbPath)
	}

	s, err := a.openStore(false)
	if err != nil {
		return err
	}
	defer s.Close()

	v, err := s.Migrate(cmd.Context())
	if err != nil {
		return describeMigrateError(err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "created %s at schema version %d\n", dbPath, v)
	return nil
}

func (a *app) runDBUpgrade(cmd *cobra.Command, args []string) error {
	s, err := a.openStore(true)
	if err != nil {
		return err
	}
	defer s.Close()

	before, err := s.SchemaVersion(cmd.Context())
	if err != nil {
		return describeMigrateError(err)
	}
	after, err := s.Migrate(cmd.Context())
	if err != nil {
		return describeMigrateError(err)
	}

	if after == before {
		fmt.Fprintf(cmd.OutOrStdout(), "schema already at version %d\n", after)
		return nil
	}
	fmt.Fprintf(cmd.OutOrStdout(), "schema upgraded from version %d to %d\n", before, after)
	return nil
}

func (a *app) runDBVerify(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	dbPath := a.databasePath()
	latest := sqlite.Migrations().Latest()

	exists, err := store.CheckExists(dbPath)
	if err != nil {
		return err
	}
	if !exists {
		fmt.Fprintf(out, "datastore: %s\nstate: %s\n", dbPath, store.StateMissing)
		return errNotReady
	}

	s, err := a.openStore(true)
	if err != nil {
		return err
	}
	defer s.Close()

	state, err := s.CheckState(cmd.Context())
	if err != nil {
		return err
	}
	v, err := s.SchemaVersion(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "datastore: %s\nstate: %s\nschema version: %d\nlatest version: %d\n", dbPath, state, v, latest)
	if state != store.StateReady {
		return errNotReady
	}
	return nil
}

func (a *app) runDBMigrations(cmd *cobra.Command, args []string) error {
	for _, m := range sqlite.Migrations() {
		fmt.Fprintf(cmd.OutOrStdout(), "%4d  %s\n", m.Version, m.Description)
	}
	return nil
}
