package main

import (
	"github.com/petermazzocco/go-activities/internal/database"
	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update every table and exit",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		db, err := database.Open(cfg.Database.Driver, cfg.Database.DSN)
		if err != nil {
			return err
		}
		return database.Migrate(db)
	},
}
