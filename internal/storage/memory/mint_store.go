package memory

import (
	"context"
	"sync"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// MintStore is an in-memory implementation of storage.MintStore.
type MintStore struct {
	mu    sync.RWMutex
	mints map[string]*domain.Mint
}

// NewMintStore creates a new in-memory mint store.
func NewMintStore() *MintStore {
	return &MintStore{
		mints: make(map[string]*domain.Mint),
	}
}

// Insert adds a new mint. Returns ErrDuplicateKey if address exists.
func (s *MintStore) Insert(_ context.Context, m *domain.Mint) error {
	if m == nil || m.Address == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.mints[m.Address]; exists {
		return storage.ErrDuplicateKey
	}

	s.mints[m.Address] = copyMint(m)
	return nil
}

// Get retrieves a mint by address. Returns ErrNotFound if not exists.
func (s *MintStore) Get(_ context.Context, address string) (*domain.Mint, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.mints[address]
	if !exists {
		return nil, storage.ErrNotFound
	}
	return copyMint(m), nil
}

// UpdateSupply overwrites the supply of an existing mint.
func (s *MintStore) UpdateSupply(_ context.Context, address string, supply uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, exists := s.mints[address]
	if !exists {
		return storage.ErrNotFound
	}
	m.Supply = supply
	return nil
}

func (s *MintStore) exists(address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.mints[address]
	return ok
}

func (s *MintStore) remove(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.mints, address)
}

// copyMint deep-copies the nullable authority fields.
func copyMint(m *domain.Mint) *domain.Mint {
	c := *m
	if m.MintAuthority != nil {
		v := *m.MintAuthority
		c.MintAuthority = &v
	}
	if m.FreezeAuthority != nil {
		v := *m.FreezeAuthority
		c.FreezeAuthority = &v
	}
	return &c
}

var _ storage.MintStore = (*MintStore)(nil)
