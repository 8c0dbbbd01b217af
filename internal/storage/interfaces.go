package storage

import (
	"context"

	"solana-token-manager/internal/domain"
)

// TokenMetadataStore provides access to token_info storage.
type TokenMetadataStore interface {
	// Insert adds a new record. Returns ErrDuplicateKey if address or mint exists.
	Insert(ctx context.Context, m *domain.TokenMetadata) error

	// GetByAddress retrieves a record by its account address. Returns ErrNotFound if not exists.
	GetByAddress(ctx context.Context, address string) (*domain.TokenMetadata, error)

	// GetByMint retrieves the record describing a mint. Returns ErrNotFound if not exists.
	GetByMint(ctx context.Context, mint string) (*domain.TokenMetadata, error)

	// List retrieves all records ordered by created_at ASC, address ASC.
	List(ctx context.Context) ([]*domain.TokenMetadata, error)
}

// MintStore provides access to mints storage.
type MintStore interface {
	// Insert adds a new mint. Returns ErrDuplicateKey if address exists.
	Insert(ctx context.Context, m *domain.Mint) error

	// Get retrieves a mint by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.Mint, error)

	// UpdateSupply overwrites the supply of an existing mint. Returns ErrNotFound if not exists.
	UpdateSupply(ctx context.Context, address string, supply uint64) error
}

// TokenAccountStore provides access to token_accounts storage.
type TokenAccountStore interface {
	// Insert adds a new account. Returns ErrDuplicateKey if address exists.
	Insert(ctx context.Context, a *domain.TokenAccount) error

	// Get retrieves an account by address. Returns ErrNotFound if not exists.
	Get(ctx context.Context, address string) (*domain.TokenAccount, error)

	// GetByOwner retrieves all accounts of an owner ordered by address.
	GetByOwner(ctx context.Context, owner string) ([]*domain.TokenAccount, error)

	// UpdateAmount overwrites the balance of an existing account. Returns ErrNotFound if not exists.
	UpdateAmount(ctx context.Context, address string, amount uint64) error
}

// IssuanceEventStore provides access to issuance_events storage.
type IssuanceEventStore interface {
	// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
	Insert(ctx context.Context, e *domain.IssuanceEvent) error

	// GetByMint retrieves all events for a mint ordered by timestamp ASC, supply_after ASC.
	GetByMint(ctx context.Context, mint string) ([]*domain.IssuanceEvent, error)
}

// Tx exposes the account stores bound to one all-or-nothing transaction.
type Tx interface {
	Metadata() TokenMetadataStore
	Mints() MintStore
	TokenAccounts() TokenAccountStore

	// AddressInUse reports whether any account (metadata, mint or token account)
	// already occupies address.
	AddressInUse(ctx context.Context, address string) (bool, error)

	// MarkProcessed records a transaction signature with the writes of this
	// transaction. Returns ErrDuplicateKey if the signature was already committed.
	MarkProcessed(ctx context.Context, signature string, processedAt int64) error
}

// TxRunner executes fn inside a transaction. If fn returns an error every
// write made through tx is discarded; otherwise all writes become visible at once.
// Transactions touching the same accounts are serialized.
type TxRunner interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
}
