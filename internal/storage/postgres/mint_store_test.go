package postgres_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
	pgstore "solana-token-manager/internal/storage/postgres"
)

func TestMintStore_InsertGetUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	store := pgstore.NewMintStore(pool)

	mint := &domain.Mint{
		Address:         "MintA",
		Decimals:        9,
		MintAuthority:   ptr("AuthA"),
		FreezeAuthority: nil,
		Supply:          0,
		CreatedAt:       1700000000000,
	}
	require.NoError(t, store.Insert(ctx, mint))

	err := store.Insert(ctx, mint)
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	// Full u64 range survives the NUMERIC round trip
	require.NoError(t, store.UpdateSupply(ctx, "MintA", math.MaxUint64))

	got, err := store.Get(ctx, "MintA")
	require.NoError(t, err)
	assert.Equal(t, uint64(math.MaxUint64), got.Supply)
	assert.Equal(t, uint8(9), got.Decimals)
	require.NotNil(t, got.MintAuthority)
	assert.Equal(t, "AuthA", *got.MintAuthority)
	assert.Nil(t, got.FreezeAuthority)

	assert.ErrorIs(t, store.UpdateSupply(ctx, "Missing", 1), storage.ErrNotFound)

	_, err = store.Get(ctx, "Missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTokenAccountStore_InsertGetUpdate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	seedMint(t, ctx, pool, "AccMint")

	store := pgstore.NewTokenAccountStore(pool)

	acc := &domain.TokenAccount{
		Address:   "AccA",
		Mint:      "AccMint",
		Owner:     "OwnerA",
		CreatedAt: 1700000000000,
	}
	require.NoError(t, store.Insert(ctx, acc))
	assert.ErrorIs(t, store.Insert(ctx, acc), storage.ErrDuplicateKey)

	require.NoError(t, store.UpdateAmount(ctx, "AccA", 1_000_000_000_000))

	got, err := store.Get(ctx, "AccA")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000_000_000_000), got.Amount)

	byOwner, err := store.GetByOwner(ctx, "OwnerA")
	require.NoError(t, err)
	require.Len(t, byOwner, 1)
	assert.Equal(t, "AccA", byOwner[0].Address)

	assert.ErrorIs(t, store.UpdateAmount(ctx, "Missing", 1), storage.ErrNotFound)
}
