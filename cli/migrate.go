package cli

import (
	"fmt"

	"redline-backend/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manages the database schema (applies pending migrations without a subcommand)",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Applies all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return database.Migrate(appConfig.Database.URL)
	},
}

var rollbackSteps int

var migrateDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Reverts the most recent migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if rollbackSteps < 1 {
			return fmt.Errorf("--steps must be at least 1")
		}
		return database.Rollback(appConfig.Database.URL, rollbackSteps)
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Prints the applied schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		version, dirty, err := database.Version(appConfig.Database.URL)
		if err != nil {
			return err
		}
		if dirty {
			fmt.Fprintf(cmd.OutOrStdout(), "%d (dirty)\n", version)
			return nil
		}
		fmt.Fprintln(cmd.OutOrStdout(), version)
		return nil
	},
}

func init() {
	migrateDownCmd.Flags().IntVar(&rollbackSteps, "steps", 1, "number of migrations to revert")
	migrateCmd.RunE = migrateUpCmd.RunE
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
