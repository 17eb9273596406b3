package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres"
	"github.com/greenplate/foodsafe-backend/internal/adapter/postgres/refdata"
	"github.com/greenplate/foodsafe-backend/internal/adapter/rediscache"
	"github.com/greenplate/foodsafe-backend/internal/app"
)

var invalidateCacheCmd = &cobra.Command{
	Use:   "invalidate-cache",
	Short: "Drop the cached reference-data snapshot",
	Long:  "Deletes the Redis reference-data snapshot so the next request rebuilds it from Postgres. Run after editing allergens, sweeteners or rules.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		rdb, err := rediscache.NewClient(ctx, cfg.Redis)
		if err != nil {
			return fmt.Errorf("connect redis: %w", err)
		}
		if rdb == nil {
			fmt.Fprintln(cmd.OutOrStdout(), "redis cache is disabled, nothing to invalidate")
			return nil
		}
		defer rdb.Close()

		pool, err := postgres.NewPool(ctx, cfg.Database)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		cache := rediscache.New(rdb, refdata.New(pool), app.NewLogger(cfg.Log))
		if err := cache.Invalidate(ctx); err != nil {
			return fmt.Errorf("invalidate snapshot: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "reference-data snapshot invalidated")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(invalidateCacheCmd)
}
