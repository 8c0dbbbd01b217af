package clickhouse_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	chstore "solana-token-manager/internal/storage/clickhouse"
	"solana-token-manager/internal/storage/migrations"
)

// historyDB needs backtick quoting, so every run covers CREATE DATABASE quoting.
const historyDB = "token-history"

// startClickHouse runs a server container and returns a DSN for historyDB,
// which does not exist yet.
func startClickHouse(t *testing.T) string {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "clickhouse/clickhouse-server:24.1-alpine",
			ExposedPorts: []string{"9000/tcp"},
			Env:          map[string]string{"CLICKHOUSE_SKIP_USER_SETUP": "1"},
			WaitingFor: wait.ForAll(
				wait.ForLog("Ready for connections").WithStartupTimeout(60*time.Second),
				wait.ForListeningPort("9000/tcp"),
			),
		},
		Started: true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "9000")
	require.NoError(t, err)

	return fmt.Sprintf("clickhouse://default@%s:%s/%s", host, port.Port(), historyDB)
}

// setupTestDB returns a connection to a freshly migrated historyDB.
func setupTestDB(t *testing.T) (*chstore.Conn, func()) {
	t.Helper()

	conn, applied, err := migrations.ApplyClickHouse(context.Background(), startClickHouse(t))
	require.NoError(t, err)
	require.Equal(t, []string{"001_issuance_events"}, applied)

	return conn, func() { conn.Close() }
}

func TestApplyClickHouse_RecordsVersions(t *testing.T) {
	dsn := startClickHouse(t)
	ctx := context.Background()

	conn, applied, err := migrations.ApplyClickHouse(ctx, dsn)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, []string{"001_issuance_events"}, applied)

	var n uint64
	require.NoError(t, conn.QueryRow(ctx,
		`SELECT count() FROM system.tables WHERE database = ? AND name = 'issuance_events'`, historyDB,
	).Scan(&n))
	assert.Equal(t, uint64(1), n)

	again, applied, err := migrations.ApplyClickHouse(ctx, dsn)
	require.NoError(t, err)
	defer again.Close()
	assert.Empty(t, applied)
}
