package memory

import (
	"context"
	"sync"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// DB groups the in-memory account stores and implements storage.TxRunner.
// Transactions are serialized by a single writer lock; writes are applied in
// place and undone from a journal when the transaction fails. Reads through
// the DB accessors wait for in-flight transactions, so partial writes are
// never observed.
type DB struct {
	mu        sync.RWMutex
	metadata  *TokenMetadataStore
	mints     *MintStore
	accounts  *TokenAccountStore
	processed map[string]int64
}

// NewDB creates an empty in-memory account database.
func NewDB() *DB {
	return &DB{
		metadata:  NewTokenMetadataStore(),
		mints:     NewMintStore(),
		accounts:  NewTokenAccountStore(),
		processed: make(map[string]int64),
	}
}

// WithinTx runs fn in a transaction. fn must not call WithinTx on the same DB.
func (db *DB) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	db.mu.Lock()
	defer db.mu.Unlock()

	j := &journal{}
	defer func() {
		if r := recover(); r != nil {
			j.rollback()
			panic(r)
		}
		if err != nil {
			j.rollback()
		}
	}()

	return fn(ctx, &memTx{db: db, j: j})
}

// Metadata returns a transaction-isolated view of token info records.
func (db *DB) Metadata() storage.TokenMetadataStore { return lockedMetadata{db} }

// Mints returns a transaction-isolated view of mints.
func (db *DB) Mints() storage.MintStore { return lockedMints{db} }

// TokenAccounts returns a transaction-isolated view of token accounts.
func (db *DB) TokenAccounts() storage.TokenAccountStore { return lockedAccounts{db} }

var _ storage.TxRunner = (*DB)(nil)

// journal holds undo actions, applied in reverse on rollback.
type journal struct {
	undo []func()
}

func (j *journal) push(fn func()) {
	j.undo = append(j.undo, fn)
}

func (j *journal) rollback() {
	for i := len(j.undo) - 1; i >= 0; i-- {
		j.undo[i]()
	}
	j.undo = nil
}

// memTx is the storage.Tx handed to transaction bodies.
type memTx struct {
	db *DB
	j  *journal
}

func (t *memTx) Metadata() storage.TokenMetadataStore    { return txMetadata{t} }
func (t *memTx) Mints() storage.MintStore                 { return txMints{t} }
func (t *memTx) TokenAccounts() storage.TokenAccountStore { return txAccounts{t} }

func (t *memTx) AddressInUse(_ context.Context, address string) (bool, error) {
	return t.db.metadata.exists(address) || t.db.mints.exists(address) || t.db.accounts.exists(address), nil
}

func (t *memTx) MarkProcessed(_ context.Context, signature string, processedAt int64) error {
	if signature == "" {
		return storage.ErrInvalidInput
	}
	if _, ok := t.db.processed[signature]; ok {
		return storage.ErrDuplicateKey
	}
	t.db.processed[signature] = processedAt
	t.j.push(func() { delete(t.db.processed, signature) })
	return nil
}

type txMetadata struct{ t *memTx }

func (s txMetadata) Insert(ctx context.Context, m *domain.TokenMetadata) error {
	if err := s.t.db.metadata.Insert(ctx, m); err != nil {
		return err
	}
	address := m.Address
	s.t.j.push(func() { s.t.db.metadata.remove(address) })
	return nil
}

func (s txMetadata) GetByAddress(ctx context.Context, address string) (*domain.TokenMetadata, error) {
	return s.t.db.metadata.GetByAddress(ctx, address)
}

func (s txMetadata) GetByMint(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	return s.t.db.metadata.GetByMint(ctx, mint)
}

func (s txMetadata) List(ctx context.Context) ([]*domain.TokenMetadata, error) {
	return s.t.db.metadata.List(ctx)
}

type txMints struct{ t *memTx }

func (s txMints) Insert(ctx context.Context, m *domain.Mint) error {
	if err := s.t.db.mints.Insert(ctx, m); err != nil {
		return err
	}
	address := m.Address
	s.t.j.push(func() { s.t.db.mints.remove(address) })
	return nil
}

func (s txMints) Get(ctx context.Context, address string) (*domain.Mint, error) {
	return s.t.db.mints.Get(ctx, address)
}

func (s txMints) UpdateSupply(ctx context.Context, address string, supply uint64) error {
	prev, err := s.t.db.mints.Get(ctx, address)
	if err != nil {
		return err
	}
	if err := s.t.db.mints.UpdateSupply(ctx, address, supply); err != nil {
		return err
	}
	s.t.j.push(func() { _ = s.t.db.mints.UpdateSupply(context.Background(), address, prev.Supply) })
	return nil
}

type txAccounts struct{ t *memTx }

func (s txAccounts) Insert(ctx context.Context, a *domain.TokenAccount) error {
	if err := s.t.db.accounts.Insert(ctx, a); err != nil {
		return err
	}
	address := a.Address
	s.t.j.push(func() { s.t.db.accounts.remove(address) })
	return nil
}

func (s txAccounts) Get(ctx context.Context, address string) (*domain.TokenAccount, error) {
	return s.t.db.accounts.Get(ctx, address)
}

func (s txAccounts) GetByOwner(ctx context.Context, owner string) ([]*domain.TokenAccount, error) {
	return s.t.db.accounts.GetByOwner(ctx, owner)
}

func (s txAccounts) UpdateAmount(ctx context.Context, address string, amount uint64) error {
	prev, err := s.t.db.accounts.Get(ctx, address)
	if err != nil {
		return err
	}
	if err := s.t.db.accounts.UpdateAmount(ctx, address, amount); err != nil {
		return err
	}
	s.t.j.push(func() { _ = s.t.db.accounts.UpdateAmount(context.Background(), address, prev.Amount) })
	return nil
}

// Locked views wait for the writer lock so readers never see a transaction midway.
// Writes through them run as single-statement transactions.

type lockedMetadata struct{ db *DB }

func (v lockedMetadata) Insert(ctx context.Context, m *domain.TokenMetadata) error {
	return v.db.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.Metadata().Insert(ctx, m)
	})
}

func (v lockedMetadata) GetByAddress(ctx context.Context, address string) (*domain.TokenMetadata, error) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	return v.db.metadata.GetByAddress(ctx, address)
}

func (v lockedMetadata) GetByMint(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	return v.db.metadata.GetByMint(ctx, mint)
}

func (v lockedMetadata) List(ctx context.Context) ([]*domain.TokenMetadata, error) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	return v.db.metadata.List(ctx)
}

type lockedMints struct{ db *DB }

func (v lockedMints) Insert(ctx context.Context, m *domain.Mint) error {
	return v.db.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.Mints().Insert(ctx, m)
	})
}

func (v lockedMints) Get(ctx context.Context, address string) (*domain.Mint, error) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	return v.db.mints.Get(ctx, address)
}

func (v lockedMints) UpdateSupply(ctx context.Context, address string, supply uint64) error {
	return v.db.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.Mints().UpdateSupply(ctx, address, supply)
	})
}

type lockedAccounts struct{ db *DB }

func (v lockedAccounts) Insert(ctx context.Context, a *domain.TokenAccount) error {
	return v.db.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.TokenAccounts().Insert(ctx, a)
	})
}

func (v lockedAccounts) Get(ctx context.Context, address string) (*domain.TokenAccount, error) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	return v.db.accounts.Get(ctx, address)
}

func (v lockedAccounts) GetByOwner(ctx context.Context, owner string) ([]*domain.TokenAccount, error) {
	v.db.mu.RLock()
	defer v.db.mu.RUnlock()
	return v.db.accounts.GetByOwner(ctx, owner)
}

func (v lockedAccounts) UpdateAmount(ctx context.Context, address string, amount uint64) error {
	return v.db.WithinTx(ctx, func(ctx context.Context, tx storage.Tx) error {
		return tx.TokenAccounts().UpdateAmount(ctx, address, amount)
	})
}
