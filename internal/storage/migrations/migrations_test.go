package migrations

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseStatements(t *testing.T) {
	tests := []struct {
		name string
		sql  string
		want []string
	}{
		{
			name: "two statements",
			sql:  "CREATE TABLE a (x INT);\nCREATE TABLE b (y INT);",
			want: []string{"CREATE TABLE a (x INT)", "CREATE TABLE b (y INT)"},
		},
		{
			name: "no trailing semicolon",
			sql:  "CREATE TABLE a (x INT)",
			want: []string{"CREATE TABLE a (x INT)"},
		},
		{
			name: "semicolon inside literal",
			sql:  "INSERT INTO t VALUES ('a;b');SELECT 1",
			want: []string{"INSERT INTO t VALUES ('a;b')", "SELECT 1"},
		},
		{
			name: "escaped quote inside literal",
			sql:  "SELECT 'it''s; fine';",
			want: []string{"SELECT 'it''s; fine'"},
		},
		{
			name: "comment with semicolon",
			sql:  "-- drop; nothing\nCREATE TABLE a (x INT); -- trailing; note\n",
			want: []string{"CREATE TABLE a (x INT)"},
		},
		{
			name: "dashes inside literal",
			sql:  "SELECT '--not a comment';",
			want: []string{"SELECT '--not a comment'"},
		},
		{
			name: "only comments",
			sql:  "-- nothing here;\n\n;;",
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseStatements(tt.sql)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseStatements_UnterminatedLiteral(t *testing.T) {
	_, err := parseStatements("SELECT 'oops; SELECT 2;")
	assert.Error(t, err)
}

func TestLoad_OrdersAndSkips(t *testing.T) {
	fsys := fstest.MapFS{
		"pg/002_second.sql": {Data: []byte("CREATE TABLE b (y INT);")},
		"pg/001_first.sql":  {Data: []byte("CREATE TABLE a (x INT);\nCREATE INDEX a_x ON a (x);")},
		"pg/003_empty.sql":  {Data: []byte("-- reserved\n")},
		"pg/README.md":      {Data: []byte("not sql")},
	}

	got, err := load(fsys, "pg")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "001_first", got[0].Version)
	assert.Len(t, got[0].Statements, 2)
	assert.Equal(t, "002_second", got[1].Version)
}

func TestLoad_RejectsBrokenFile(t *testing.T) {
	fsys := fstest.MapFS{"pg/001_bad.sql": {Data: []byte("SELECT 'unterminated;")}}
	_, err := load(fsys, "pg")
	assert.ErrorContains(t, err, "001_bad.sql")
}

func TestPending(t *testing.T) {
	all := []Migration{{Version: "001_a"}, {Version: "002_b"}, {Version: "003_c"}}
	got := pending(all, map[string]bool{"001_a": true, "003_c": true})
	require.Len(t, got, 1)
	assert.Equal(t, "002_b", got[0].Version)
}

func TestEmbeddedMigrations(t *testing.T) {
	pg, err := Load(Postgres)
	require.NoError(t, err)
	require.Len(t, pg, 2)
	assert.Equal(t, "001_accounts", pg[0].Version)
	assert.Equal(t, "002_processed_transactions", pg[1].Version)
	for _, m := range pg {
		for _, stmt := range m.Statements {
			assert.NotContains(t, stmt, "--", "%s kept a comment", m.Version)
		}
	}

	ch, err := Load(ClickHouse)
	require.NoError(t, err)
	require.Len(t, ch, 1)
	require.Len(t, ch[0].Statements, 1)
	assert.Contains(t, ch[0].Statements[0], "CREATE TABLE IF NOT EXISTS issuance_events")
}

func TestQuoteIdentifier(t *testing.T) {
	assert.Equal(t, "`tokens`", quoteIdentifier("tokens"))
	assert.Equal(t, "`token-history`", quoteIdentifier("token-history"))
	assert.Equal(t, "`a\\`b`", quoteIdentifier("a`b"))
	assert.Equal(t, "`a\\\\b`", quoteIdentifier(`a\b`))
}

func TestDatabaseFromDSN(t *testing.T) {
	db, err := databaseFromDSN("clickhouse://default@localhost:9000/issuance")
	require.NoError(t, err)
	assert.Equal(t, "issuance", db)

	db, err = databaseFromDSN("clickhouse://localhost/token%2Dhistory")
	require.NoError(t, err)
	assert.Equal(t, "token-history", db)

	_, err = databaseFromDSN("clickhouse://localhost:9000")
	assert.Error(t, err)
}
