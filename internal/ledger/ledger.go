// Package ledger implements the token-ledger collaborator: mint creation,
// holding accounts and mint_to with authority and overflow checks.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"math/bits"
	"time"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// Ledger is the collaborator contract the mint gateway delegates to.
type Ledger interface {
	InitializeMint(ctx context.Context, mint string, decimals uint8, mintAuthority string, freezeAuthority *string) error
	CreateAssociatedAccount(ctx context.Context, account, mint, owner string) error
	MintTo(ctx context.Context, mint, account, authority string, amount uint64) (*domain.Mint, error)
}

// TokenLedger implements Ledger over account stores. Bind it to the stores of
// a storage.Tx so its writes share the caller's transaction.
type TokenLedger struct {
	mints    storage.MintStore
	accounts storage.TokenAccountStore
	now      func() time.Time
}

// New creates a ledger over the given stores.
func New(mints storage.MintStore, accounts storage.TokenAccountStore) *TokenLedger {
	return &TokenLedger{mints: mints, accounts: accounts, now: time.Now}
}

// ForTx creates a ledger bound to a storage transaction.
func ForTx(tx storage.Tx) *TokenLedger {
	return New(tx.Mints(), tx.TokenAccounts())
}

// WithClock overrides the creation timestamp source.
func (l *TokenLedger) WithClock(now func() time.Time) *TokenLedger {
	l.now = now
	return l
}

// Compile-time interface check.
var _ Ledger = (*TokenLedger)(nil)

// InitializeMint creates a mint with zero supply.
func (l *TokenLedger) InitializeMint(ctx context.Context, mint string, decimals uint8, mintAuthority string, freezeAuthority *string) error {
	if mint == "" || mintAuthority == "" {
		return fmt.Errorf("initialize mint: %w", storage.ErrInvalidInput)
	}

	authority := mintAuthority
	m := &domain.Mint{
		Address:         mint,
		Decimals:        decimals,
		MintAuthority:   &authority,
		FreezeAuthority: freezeAuthority,
		CreatedAt:       l.now().UnixMilli(),
	}

	if err := l.mints.Insert(ctx, m); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("initialize mint %s: %w", mint, ErrAlreadyInUse)
		}
		return fmt.Errorf("initialize mint %s: %w", mint, err)
	}
	return nil
}

// CreateAssociatedAccount creates an empty holding account of owner for mint.
func (l *TokenLedger) CreateAssociatedAccount(ctx context.Context, account, mint, owner string) error {
	if _, err := l.mint(ctx, mint); err != nil {
		return fmt.Errorf("create account %s: %w", account, err)
	}

	a := &domain.TokenAccount{
		Address:   account,
		Mint:      mint,
		Owner:     owner,
		CreatedAt: l.now().UnixMilli(),
	}

	if err := l.accounts.Insert(ctx, a); err != nil {
		if errors.Is(err, storage.ErrDuplicateKey) {
			return fmt.Errorf("create account %s: %w", account, ErrAlreadyInUse)
		}
		return fmt.Errorf("create account %s: %w", account, err)
	}
	return nil
}

// MintTo credits amount base units to account and returns the updated mint.
// authority must equal the mint's current mint authority.
func (l *TokenLedger) MintTo(ctx context.Context, mint, account, authority string, amount uint64) (*domain.Mint, error) {
	m, err := l.mint(ctx, mint)
	if err != nil {
		return nil, fmt.Errorf("mint to: %w", err)
	}

	acc, err := l.accounts.Get(ctx, account)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("mint to: token account %s: %w", account, ErrUninitializedAccount)
		}
		return nil, fmt.Errorf("mint to: %w", err)
	}

	if acc.Mint != m.Address {
		return nil, fmt.Errorf("mint to: account %s holds %s: %w", account, acc.Mint, ErrMintMismatch)
	}

	if m.MintAuthority == nil {
		return nil, fmt.Errorf("mint to: %w", ErrFixedSupply)
	}
	if *m.MintAuthority != authority {
		return nil, fmt.Errorf("mint to: authority %s: %w", authority, ErrOwnerMismatch)
	}

	supply, carry := bits.Add64(m.Supply, amount, 0)
	if carry != 0 {
		return nil, fmt.Errorf("mint to: supply %d + %d: %w", m.Supply, amount, ErrOverflow)
	}
	balance, carry := bits.Add64(acc.Amount, amount, 0)
	if carry != 0 {
		return nil, fmt.Errorf("mint to: balance %d + %d: %w", acc.Amount, amount, ErrOverflow)
	}

	if err := l.mints.UpdateSupply(ctx, mint, supply); err != nil {
		return nil, fmt.Errorf("mint to: update supply: %w", err)
	}
	if err := l.accounts.UpdateAmount(ctx, account, balance); err != nil {
		return nil, fmt.Errorf("mint to: update balance: %w", err)
	}

	m.Supply = supply
	return m, nil
}

func (l *TokenLedger) mint(ctx context.Context, address string) (*domain.Mint, error) {
	m, err := l.mints.Get(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("mint %s: %w", address, ErrUninitializedAccount)
		}
		return nil, err
	}
	return m, nil
}

// Mint returns the mint at address.
func (l *TokenLedger) Mint(ctx context.Context, address string) (*domain.Mint, error) {
	return l.mint(ctx, address)
}

// Account returns the token account at address.
func (l *TokenLedger) Account(ctx context.Context, address string) (*domain.TokenAccount, error) {
	a, err := l.accounts.Get(ctx, address)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, fmt.Errorf("token account %s: %w", address, ErrUninitializedAccount)
		}
		return nil, err
	}
	return a, nil
}
