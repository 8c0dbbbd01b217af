package ledger

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-token-manager/internal/storage"
	"solana-token-manager/internal/storage/memory"
)

func newTestLedger() (*TokenLedger, *memory.MintStore, *memory.TokenAccountStore) {
	mints := memory.NewMintStore()
	accounts := memory.NewTokenAccountStore()
	l := New(mints, accounts).WithClock(func() time.Time { return time.UnixMilli(1700000000000) })
	return l, mints, accounts
}

func TestTokenLedger_InitializeAndMint(t *testing.T) {
	ctx := context.Background()
	l, mints, accounts := newTestLedger()

	freeze := "auth"
	require.NoError(t, l.InitializeMint(ctx, "mint", 6, "auth", &freeze))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "auth"))

	m, err := l.MintTo(ctx, "mint", "acc", "auth", 1_000)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_000), m.Supply)

	m, err = l.MintTo(ctx, "mint", "acc", "auth", 500)
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500), m.Supply)

	stored, err := mints.Get(ctx, "mint")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500), stored.Supply)
	assert.Equal(t, uint8(6), stored.Decimals)
	assert.Equal(t, int64(1700000000000), stored.CreatedAt)
	require.NotNil(t, stored.FreezeAuthority)
	assert.Equal(t, "auth", *stored.FreezeAuthority)

	acc, err := accounts.Get(ctx, "acc")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_500), acc.Amount)
	assert.Equal(t, "auth", acc.Owner)
}

func TestTokenLedger_InitializeMintTwice(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()

	require.NoError(t, l.InitializeMint(ctx, "mint", 6, "auth", nil))
	assert.ErrorIs(t, l.InitializeMint(ctx, "mint", 9, "other", nil), ErrAlreadyInUse)
}

func TestTokenLedger_CreateAccountErrors(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()

	assert.ErrorIs(t, l.CreateAssociatedAccount(ctx, "acc", "missing", "owner"), ErrUninitializedAccount)

	require.NoError(t, l.InitializeMint(ctx, "mint", 0, "auth", nil))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "owner"))
	assert.ErrorIs(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "owner"), ErrAlreadyInUse)
}

func TestTokenLedger_MintToErrors(t *testing.T) {
	ctx := context.Background()
	l, mints, accounts := newTestLedger()

	require.NoError(t, l.InitializeMint(ctx, "mint", 0, "auth", nil))
	require.NoError(t, l.InitializeMint(ctx, "other-mint", 0, "auth", nil))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "auth"))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "other-acc", "other-mint", "auth"))

	tests := []struct {
		name    string
		mint    string
		account string
		auth    string
		amount  uint64
		wantErr error
	}{
		{"unknown mint", "missing", "acc", "auth", 1, ErrUninitializedAccount},
		{"unknown account", "mint", "missing", "auth", 1, ErrUninitializedAccount},
		{"wrong mint for account", "mint", "other-acc", "auth", 1, ErrMintMismatch},
		{"wrong authority", "mint", "acc", "intruder", 1, ErrOwnerMismatch},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := l.MintTo(ctx, tt.mint, tt.account, tt.auth, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}

	// Nothing changed
	m, _ := mints.Get(ctx, "mint")
	assert.Zero(t, m.Supply)
	a, _ := accounts.Get(ctx, "acc")
	assert.Zero(t, a.Amount)
}

func TestTokenLedger_MintToOverflow(t *testing.T) {
	ctx := context.Background()
	l, mints, _ := newTestLedger()

	require.NoError(t, l.InitializeMint(ctx, "mint", 0, "auth", nil))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "auth"))

	_, err := l.MintTo(ctx, "mint", "acc", "auth", math.MaxUint64)
	require.NoError(t, err)

	_, err = l.MintTo(ctx, "mint", "acc", "auth", 1)
	assert.ErrorIs(t, err, ErrOverflow)

	m, _ := mints.Get(ctx, "mint")
	assert.Equal(t, uint64(math.MaxUint64), m.Supply)
}

func TestTokenLedger_FixedSupply(t *testing.T) {
	ctx := context.Background()
	l, mints, _ := newTestLedger()

	require.NoError(t, l.InitializeMint(ctx, "mint", 0, "auth", nil))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "auth"))

	// Simulate an authority revoked outside the gateway.
	m, _ := mints.Get(ctx, "mint")
	m.MintAuthority = nil
	fixed := memory.NewMintStore()
	require.NoError(t, fixed.Insert(ctx, m))
	l.mints = fixed

	_, err := l.MintTo(ctx, "mint", "acc", "auth", 1)
	assert.ErrorIs(t, err, ErrFixedSupply)
}

func TestTokenLedger_Reads(t *testing.T) {
	ctx := context.Background()
	l, _, _ := newTestLedger()

	_, err := l.Mint(ctx, "mint")
	assert.ErrorIs(t, err, ErrUninitializedAccount)
	_, err = l.Account(ctx, "acc")
	assert.ErrorIs(t, err, ErrUninitializedAccount)

	require.NoError(t, l.InitializeMint(ctx, "mint", 2, "auth", nil))
	require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "owner"))

	m, err := l.Mint(ctx, "mint")
	require.NoError(t, err)
	assert.Equal(t, uint8(2), m.Decimals)

	a, err := l.Account(ctx, "acc")
	require.NoError(t, err)
	assert.Equal(t, "mint", a.Mint)
	assert.Zero(t, a.Amount)
}

func TestTokenLedger_ForTxRollback(t *testing.T) {
	ctx := context.Background()
	db := memory.NewDB()

	err := db.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		l := ForTx(tx)
		require.NoError(t, l.InitializeMint(ctx, "mint", 0, "auth", nil))
		require.NoError(t, l.CreateAssociatedAccount(ctx, "acc", "mint", "auth"))
		_, err := l.MintTo(ctx, "mint", "acc", "auth", 10)
		require.NoError(t, err)
		return l.InitializeMint(ctx, "mint", 0, "auth", nil)
	})
	require.ErrorIs(t, err, ErrAlreadyInUse)

	_, err = db.Mints().Get(ctx, "mint")
	assert.ErrorIs(t, err, storage.ErrNotFound)
	_, err = db.TokenAccounts().Get(ctx, "acc")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
