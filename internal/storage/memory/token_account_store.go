package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// TokenAccountStore is an in-memory implementation of storage.TokenAccountStore.
type TokenAccountStore struct {
	mu       sync.RWMutex
	accounts map[string]*domain.TokenAccount
}

// NewTokenAccountStore creates a new in-memory token account store.
func NewTokenAccountStore() *TokenAccountStore {
	return &TokenAccountStore{
		accounts: make(map[string]*domain.TokenAccount),
	}
}

// Insert adds a new account. Returns ErrDuplicateKey if address exists.
func (s *TokenAccountStore) Insert(_ context.Context, a *domain.TokenAccount) error {
	if a == nil || a.Address == "" || a.Mint == "" || a.Owner == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.accounts[a.Address]; exists {
		return storage.ErrDuplicateKey
	}

	accCopy := *a
	s.accounts[a.Address] = &accCopy
	return nil
}

// Get retrieves an account by address. Returns ErrNotFound if not exists.
func (s *TokenAccountStore) Get(_ context.Context, address string) (*domain.TokenAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, exists := s.accounts[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	accCopy := *a
	return &accCopy, nil
}

// GetByOwner retrieves all accounts of an owner ordered by address.
func (s *TokenAccountStore) GetByOwner(_ context.Context, owner string) ([]*domain.TokenAccount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.TokenAccount
	for _, a := range s.accounts {
		if a.Owner == owner {
			accCopy := *a
			result = append(result, &accCopy)
		}
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Address < result[j].Address
	})
	return result, nil
}

// UpdateAmount overwrites the balance of an existing account.
func (s *TokenAccountStore) UpdateAmount(_ context.Context, address string, amount uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, exists := s.accounts[address]
	if !exists {
		return storage.ErrNotFound
	}
	a.Amount = amount
	return nil
}

func (s *TokenAccountStore) exists(address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.accounts[address]
	return ok
}

func (s *TokenAccountStore) remove(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.accounts, address)
}

var _ storage.TokenAccountStore = (*TokenAccountStore)(nil)
