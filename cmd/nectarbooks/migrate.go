package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nectarbooks/backend/pkg/migrate"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply or inspect database migrations",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, err := runtime.dbClient.DB().DB()
		if err != nil {
			return err
		}
		if err := migrate.Up(cmd.Context(), sqlDB); err != nil {
			return err
		}
		version, err := migrate.Version(cmd.Context(), sqlDB)
		if err != nil {
			return err
		}
		fmt.Printf("database is at version %d\n", version)
		return nil
	},
}

var migrateVersionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current migration version",
	RunE: func(cmd *cobra.Command, args []string) error {
		sqlDB, err := runtime.dbClient.DB().DB()
		if err != nil {
			return err
		}
		version, err := migrate.Version(cmd.Context(), sqlDB)
		if err != nil {
			return err
		}
		fmt.Printf("database is at version %d\n", version)
		return nil
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateVersionCmd)
	rootCmd.AddCommand(migrateCmd)
}
