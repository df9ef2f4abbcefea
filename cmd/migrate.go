package cmd

import (
	"fmt"
	"strconv"

	"fortuneblock/config"
	"fortuneblock/database"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	migrateCmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the snapshot database schema",
	}

	migrateCmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateUp(url)
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				steps, err := parseSteps(args)
				if err != nil {
					return err
				}
				url, err := databaseURL()
				if err != nil {
					return err
				}
				return database.MigrateDown(url, steps)
			},
		},
		&cobra.Command{
			Use:   "status",
			Short: "Show the applied schema version",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				url, err := databaseURL()
				if err != nil {
					return err
				}
				status, err := database.GetMigrationStatus(url)
				if err != nil {
					return err
				}
				printMigrationStatus(cmd, status)
				return nil
			},
		},
	)
	return migrateCmd
}

func printMigrationStatus(cmd *cobra.Command, status *database.MigrationStatus) {
	out := cmd.OutOrStdout()
	if !status.Applied {
		fmt.Fprintln(out, "No migrations applied")
		return
	}
	fmt.Fprintf(out, "Current version: %d\n", status.Version)
	if status.Dirty {
		fmt.Fprintln(out, "Database is dirty, fix the failed migration and force the version")
	}
}

func parseSteps(args []string) (int, error) {
	if len(args) == 0 {
		return 1, nil
	}
	steps, err := strconv.Atoi(args[0])
	if err != nil || steps < 1 {
		return 0, fmt.Errorf("invalid number of steps %q", args[0])
	}
	return steps, nil
}

func databaseURL() (string, error) {
	cfg := config.Get()
	if cfg.DatabaseURL == "" {
		return "", fmt.Errorf("DATABASE_URL is required")
	}
	return cfg.GetDatabaseURL(), nil
}
