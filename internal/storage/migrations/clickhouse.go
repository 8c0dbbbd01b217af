package migrations

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	chstore "solana-token-manager/internal/storage/clickhouse"
)

const clickhouseVersionsTable = `
	CREATE TABLE IF NOT EXISTS schema_migrations (
		version    String,
		applied_at DateTime64(3) DEFAULT now64(3)
	) ENGINE = ReplacingMergeTree()
	ORDER BY version`

// ApplyClickHouse creates the DSN's database when missing and applies pending
// issuance-history migrations. It returns a connection to that database and
// the versions applied by this call.
//
// ClickHouse has no transactional DDL: a migration that fails halfway is not
// recorded and is re-run in full, so statements must be idempotent.
func ApplyClickHouse(ctx context.Context, dsn string) (*chstore.Conn, []string, error) {
	all, err := Load(ClickHouse)
	if err != nil {
		return nil, nil, err
	}

	database, err := databaseFromDSN(dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := createDatabase(ctx, dsn, database); err != nil {
		return nil, nil, err
	}

	conn, err := chstore.NewConnWithDatabase(ctx, dsn, database)
	if err != nil {
		return nil, nil, fmt.Errorf("connect clickhouse database %s: %w", database, err)
	}

	applied, err := applyClickHouse(ctx, conn, all)
	if err != nil {
		_ = conn.Close()
		return nil, applied, err
	}
	return conn, applied, nil
}

func applyClickHouse(ctx context.Context, conn *chstore.Conn, all []Migration) ([]string, error) {
	if err := conn.Exec(ctx, clickhouseVersionsTable); err != nil {
		return nil, fmt.Errorf("create schema_migrations: %w", err)
	}

	done, err := clickhouseVersions(ctx, conn)
	if err != nil {
		return nil, err
	}

	var applied []string
	for _, m := range pending(all, done) {
		for i, stmt := range m.Statements {
			if err := conn.Exec(ctx, stmt); err != nil {
				return applied, fmt.Errorf("apply migration %s statement %d: %w", m.Version, i+1, err)
			}
		}
		if err := conn.Exec(ctx, `INSERT INTO schema_migrations (version) VALUES (?)`, m.Version); err != nil {
			return applied, fmt.Errorf("record migration %s: %w", m.Version, err)
		}
		applied = append(applied, m.Version)
	}
	return applied, nil
}

func clickhouseVersions(ctx context.Context, conn *chstore.Conn) (map[string]bool, error) {
	rows, err := conn.Query(ctx, `SELECT version FROM schema_migrations FINAL`)
	if err != nil {
		return nil, fmt.Errorf("query schema_migrations: %w", err)
	}
	defer rows.Close()

	done := make(map[string]bool)
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("scan schema_migrations: %w", err)
		}
		done[v] = true
	}
	return done, rows.Err()
}

func createDatabase(ctx context.Context, dsn, database string) error {
	admin, err := chstore.NewConnWithDatabase(ctx, dsn, "")
	if err != nil {
		return fmt.Errorf("connect clickhouse server: %w", err)
	}
	defer admin.Close()

	if err := admin.Exec(ctx, "CREATE DATABASE IF NOT EXISTS "+quoteIdentifier(database)); err != nil {
		return fmt.Errorf("create database %s: %w", database, err)
	}
	return nil
}

// quoteIdentifier quotes a ClickHouse identifier with backticks.
func quoteIdentifier(name string) string {
	return "`" + strings.NewReplacer(`\`, `\\`, "`", "\\`").Replace(name) + "`"
}

func databaseFromDSN(dsn string) (string, error) {
	u, err := url.Parse(dsn)
	if err != nil {
		return "", fmt.Errorf("parse clickhouse dsn: %w", err)
	}
	database := strings.TrimPrefix(u.Path, "/")
	if database == "" {
		return "", fmt.Errorf("clickhouse dsn has no database (clickhouse://host:9000/<database>)")
	}
	return database, nil
}
