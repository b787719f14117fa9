package main

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/smartstock/smartstock/internal/platform/db"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply the database schema",
		RunE: func(cmd *cobra.Command, _ []string) error {
			e, err := openEnv(cmd.Context())
			if err != nil {
				return err
			}
			defer e.Close()
			if err := db.Migrate(cmd.Context(), e.pool); err != nil {
				return err
			}
			e.logger.Info("schema applied", slog.String("dsn_host", e.pool.Config().ConnConfig.Host))
			return nil
		},
	}
}
