package main

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
)

func (a *app) configCmd() *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change settings",
	}

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "config file: %s\ndatabase: %s\n", a.cfg.File, a.databasePath())
			return nil
		},
	}

	setDBCmd := &cobra.Command{
		Use:   "set-db PATH",
		Short: "Store the database path in the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := filepath.Abs(args[0])
			if err != nil {
				return err
			}
			a.cfg.DBPath = path
			if err := a.cfg.Save(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "database set to %s\n", path)
			return nil
		},
	}

	configCmd.AddCommand(showCmd, setDBCmd)
	return configCmd
}
