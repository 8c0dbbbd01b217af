package clickhouse_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
	chstore "solana-token-manager/internal/storage/clickhouse"
)

func TestIssuanceEventStore_InsertAndGetByMint(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewIssuanceEventStore(conn)

	create := &domain.IssuanceEvent{
		EventID:      "evt-create",
		Kind:         domain.IssuanceCreate,
		Mint:         "MintA",
		TokenAccount: "AccA",
		Authority:    "AuthA",
		Amount:       1_000_000_000_000,
		SupplyAfter:  1_000_000_000_000,
		Signature:    "SigA",
		TimestampMs:  1700000000000,
	}
	mint := &domain.IssuanceEvent{
		EventID:      "evt-mint",
		Kind:         domain.IssuanceMint,
		Mint:         "MintA",
		TokenAccount: "AccA",
		Authority:    "AuthA",
		Amount:       math.MaxUint64 - 1_000_000_000_000,
		SupplyAfter:  math.MaxUint64,
		Signature:    "SigB",
		TimestampMs:  1700000001000,
	}

	require.NoError(t, store.Insert(ctx, mint))
	require.NoError(t, store.Insert(ctx, create))

	events, err := store.GetByMint(ctx, "MintA")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, create, events[0])
	assert.Equal(t, mint, events[1])
}

func TestIssuanceEventStore_Duplicate(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := chstore.NewIssuanceEventStore(conn)

	e := &domain.IssuanceEvent{EventID: "evt-dup", Kind: domain.IssuanceMint, Mint: "MintDup", Amount: 1}
	require.NoError(t, store.Insert(ctx, e))
	assert.ErrorIs(t, store.Insert(ctx, e), storage.ErrDuplicateKey)
}

func TestIssuanceEventStore_EmptyMint(t *testing.T) {
	conn, cleanup := setupTestDB(t)
	defer cleanup()

	events, err := chstore.NewIssuanceEventStore(conn).GetByMint(context.Background(), "Unknown")
	require.NoError(t, err)
	assert.Empty(t, events)
}
