// Package migrations holds the token manager schema for PostgreSQL (accounts)
// and ClickHouse (issuance history) and applies it. Applied versions are
// recorded in a schema_migrations table on each backend, so re-running only
// applies new files.
package migrations

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

// Backends with embedded migrations.
const (
	Postgres   = "postgres"
	ClickHouse = "clickhouse"
)

//go:embed postgres/*.sql clickhouse/*.sql
var embedded embed.FS

// Migration is one schema file split into executable statements.
type Migration struct {
	Version    string // file name without .sql, e.g. 001_accounts
	Statements []string
}

// Load returns the migrations of backend ordered by version.
func Load(backend string) ([]Migration, error) {
	return load(embedded, backend)
}

func load(fsys fs.FS, dir string) ([]Migration, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read %s migrations: %w", dir, err)
	}

	var out []Migration
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".sql") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", e.Name(), err)
		}
		stmts, err := parseStatements(string(data))
		if err != nil {
			return nil, fmt.Errorf("parse migration %s: %w", e.Name(), err)
		}
		if len(stmts) == 0 {
			continue
		}
		out = append(out, Migration{
			Version:    strings.TrimSuffix(e.Name(), ".sql"),
			Statements: stmts,
		})
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Version < out[j].Version })
	return out, nil
}

// pending filters out versions already applied.
func pending(all []Migration, applied map[string]bool) []Migration {
	var out []Migration
	for _, m := range all {
		if !applied[m.Version] {
			out = append(out, m)
		}
	}
	return out
}

// parseStatements splits SQL on semicolons outside single-quoted literals,
// dropping -- comments. Neither driver accepts several statements in one Exec
// call inside a transaction, so each statement is run on its own.
func parseStatements(sql string) ([]string, error) {
	var (
		stmts   []string
		cur     strings.Builder
		inQuote bool
	)

	flush := func() {
		if s := strings.TrimSpace(cur.String()); s != "" {
			stmts = append(stmts, s)
		}
		cur.Reset()
	}

	for i := 0; i < len(sql); i++ {
		ch := sql[i]
		switch {
		case inQuote:
			cur.WriteByte(ch)
			if ch == '\'' {
				if i+1 < len(sql) && sql[i+1] == '\'' {
					cur.WriteByte('\'')
					i++
					continue
				}
				inQuote = false
			}
		case ch == '\'':
			inQuote = true
			cur.WriteByte(ch)
		case ch == '-' && i+1 < len(sql) && sql[i+1] == '-':
			for i < len(sql) && sql[i] != '\n' {
				i++
			}
			cur.WriteByte('\n')
		case ch == ';':
			flush()
		default:
			cur.WriteByte(ch)
		}
	}

	if inQuote {
		return nil, fmt.Errorf("unterminated string literal")
	}
	flush()
	return stmts, nil
}
