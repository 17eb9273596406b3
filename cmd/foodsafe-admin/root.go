package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/greenplate/foodsafe-backend/internal/config"
)

var rootCmd = &cobra.Command{
	Use:   "foodsafe-admin",
	Short: "Operational tasks for the safety evaluation service",
	Long:  "foodsafe-admin applies schema migrations, seeds demo catalog data, and invalidates the reference-data cache.",
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig is shared by all subcommands. Each command connects on its own
// so a typo in one flag cannot leave half-open connections behind.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}
