package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solana-token-manager/internal/storage/migrations"
	pgstore "solana-token-manager/internal/storage/postgres"
)

// migrateCmd applies the embedded schema migrations
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply PostgreSQL and ClickHouse schema migrations",
	Long: `Applies the embedded migrations to every configured database:
  - PostgreSQL (storage.postgres_dsn / POSTGRES_DSN): token_info, mints, token_accounts
  - ClickHouse (storage.clickhouse_dsn / CLICKHOUSE_DSN): issuance_events

Applied versions are recorded in a schema_migrations table on each database,
so re-running only applies files added since the last run.`,
	RunE: runMigrate,
}

func runMigrate(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	applied := 0

	if dsn := cfg.Storage.PostgresDSN; dsn != "" {
		pool, err := pgstore.NewPool(ctx, dsn)
		if err != nil {
			return fmt.Errorf("connect postgres: %w", err)
		}
		defer pool.Close()

		versions, err := migrations.ApplyPostgres(ctx, pool)
		if err != nil {
			return fmt.Errorf("postgres migrations: %w", err)
		}
		logger.Info("PostgreSQL migrations applied", zap.Strings("versions", versions))
		applied++
	}

	if dsn := cfg.Storage.ClickHouseDSN; dsn != "" {
		conn, versions, err := migrations.ApplyClickHouse(ctx, dsn)
		if err != nil {
			return fmt.Errorf("clickhouse migrations: %w", err)
		}
		defer conn.Close()
		logger.Info("ClickHouse migrations applied", zap.Strings("versions", versions))
		applied++
	}

	if applied == 0 {
		logger.Warn("No database configured; nothing to migrate",
			zap.String("hint", "set POSTGRES_DSN and/or CLICKHOUSE_DSN"))
	}
	return nil
}
