package postgres_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
	pgstore "solana-token-manager/internal/storage/postgres"
)

func TestTxRunner_CommitAndAddressInUse(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	runner := pgstore.NewTxRunner(pool)

	err := runner.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Mints().Insert(ctx, &domain.Mint{Address: "TxMint", Decimals: 6, CreatedAt: 1}); err != nil {
			return err
		}
		if err := tx.TokenAccounts().Insert(ctx, &domain.TokenAccount{Address: "TxAcc", Mint: "TxMint", Owner: "O", CreatedAt: 1}); err != nil {
			return err
		}
		return tx.Metadata().Insert(ctx, &domain.TokenMetadata{
			Address: "TxInfo", Mint: "TxMint", Decimals: 6, Name: "n", Symbol: "s", Authority: "O", CreatedAt: 1,
		})
	})
	require.NoError(t, err)

	err = runner.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		for _, addr := range []string{"TxMint", "TxAcc", "TxInfo"} {
			inUse, err := tx.AddressInUse(ctx, addr)
			require.NoError(t, err)
			assert.True(t, inUse, addr)
		}
		inUse, err := tx.AddressInUse(ctx, "Fresh")
		require.NoError(t, err)
		assert.False(t, inUse)
		return nil
	})
	require.NoError(t, err)
}

func TestTxRunner_RollbackOnError(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	runner := pgstore.NewTxRunner(pool)
	boom := errors.New("ledger rejected")

	err := runner.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		if err := tx.Mints().Insert(ctx, &domain.Mint{Address: "RolledBack", CreatedAt: 1}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = pgstore.NewMintStore(pool).Get(ctx, "RolledBack")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestTxRunner_MarkProcessed(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	runner := pgstore.NewTxRunner(pool)
	boom := errors.New("ledger rejected")

	err := runner.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		require.NoError(t, tx.MarkProcessed(ctx, "SigRolledBack", 1))
		return boom
	})
	assert.ErrorIs(t, err, boom)

	for i, want := range []error{nil, storage.ErrDuplicateKey} {
		err := runner.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
			return tx.MarkProcessed(ctx, "SigRolledBack", int64(i))
		})
		if want == nil {
			require.NoError(t, err)
		} else {
			assert.ErrorIs(t, err, want)
		}
	}
}
