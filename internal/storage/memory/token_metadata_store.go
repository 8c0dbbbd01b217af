package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// TokenMetadataStore is an in-memory implementation of storage.TokenMetadataStore.
type TokenMetadataStore struct {
	mu        sync.RWMutex
	byAddress map[string]*domain.TokenMetadata // keyed by token info address
	byMint    map[string]*domain.TokenMetadata // keyed by mint (unique)
}

// NewTokenMetadataStore creates a new in-memory token metadata store.
func NewTokenMetadataStore() *TokenMetadataStore {
	return &TokenMetadataStore{
		byAddress: make(map[string]*domain.TokenMetadata),
		byMint:    make(map[string]*domain.TokenMetadata),
	}
}

// Insert adds a new record. Returns ErrDuplicateKey if address or mint already exists.
func (s *TokenMetadataStore) Insert(_ context.Context, m *domain.TokenMetadata) error {
	if m == nil || m.Address == "" || m.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byAddress[m.Address]; exists {
		return storage.ErrDuplicateKey
	}

	if _, exists := s.byMint[m.Mint]; exists {
		return storage.ErrDuplicateKey
	}

	metaCopy := *m
	s.byAddress[m.Address] = &metaCopy
	s.byMint[m.Mint] = &metaCopy
	return nil
}

// GetByAddress retrieves a record by address. Returns ErrNotFound if not exists.
func (s *TokenMetadataStore) GetByAddress(_ context.Context, address string) (*domain.TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.byAddress[address]
	if !exists {
		return nil, storage.ErrNotFound
	}

	metaCopy := *m
	return &metaCopy, nil
}

// GetByMint retrieves a record by mint address. Returns ErrNotFound if not exists.
func (s *TokenMetadataStore) GetByMint(_ context.Context, mint string) (*domain.TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, exists := s.byMint[mint]
	if !exists {
		return nil, storage.ErrNotFound
	}

	metaCopy := *m
	return &metaCopy, nil
}

// List retrieves all records ordered by created_at, then address.
func (s *TokenMetadataStore) List(_ context.Context) ([]*domain.TokenMetadata, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.TokenMetadata, 0, len(s.byAddress))
	for _, m := range s.byAddress {
		metaCopy := *m
		result = append(result, &metaCopy)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].CreatedAt != result[j].CreatedAt {
			return result[i].CreatedAt < result[j].CreatedAt
		}
		return result[i].Address < result[j].Address
	})

	return result, nil
}

func (s *TokenMetadataStore) exists(address string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byAddress[address]
	return ok
}

// remove undoes an Insert during transaction rollback.
func (s *TokenMetadataStore) remove(address string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if m, ok := s.byAddress[address]; ok {
		delete(s.byMint, m.Mint)
		delete(s.byAddress, address)
	}
}

var _ storage.TokenMetadataStore = (*TokenMetadataStore)(nil)
