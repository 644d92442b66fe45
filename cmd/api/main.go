package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	configPath string
	dsnFlag    string
)

var rootCmd = &cobra.Command{
	Use:   "activities",
	Short: "Activities API - todos, drive, food reviews, Pokemon and notes",
	// Running with no subcommand starts the server.
	RunE: func(cmd *cobra.Command, args []string) error {
		return serveCmd.RunE(cmd, args)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a YAML config file (default: activities.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&dsnFlag, "dsn", "", "Database connection string, overrides DSN")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
