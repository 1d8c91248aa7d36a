package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		Long:  "Creates or updates the products and cycle_runs tables (Postgres) or indexes (MongoDB).",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, closer, err := loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()

			s, err := openStore(ctx, cfg)
			if err != nil {
				return err
			}
			defer s.Close()

			log.Info("running migrations", "driver", cfg.Database.Driver)
			if err := s.Migrate(ctx); err != nil {
				return fmt.Errorf("running migrations: %w", err)
			}

			log.Info("migrations complete")
			return nil
		},
	}
}
