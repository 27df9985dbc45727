package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"terminal-terrace/journal-wiki/config"
	"terminal-terrace/journal-wiki/internal/database"
	"terminal-terrace/journal-wiki/internal/logger"
)

// NewMigrateCommand creates the migrate command.
func NewMigrateCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			conf, err := config.Parse(rootOpts.ConfigPath)
			if err != nil {
				return err
			}
			log := logger.Init(conf.Log)

			db, err := database.InitDatabase(conf.Database)
			if err != nil {
				return fmt.Errorf("migrate: %w", err)
			}
			defer database.Close(db)

			log.Info("schema migrated", "driver", conf.Database.Driver)
			fmt.Fprintln(cmd.OutOrStdout(), "migration complete")
			return nil
		},
	}
}
