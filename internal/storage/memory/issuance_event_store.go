package memory

import (
	"context"
	"sort"
	"sync"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// IssuanceEventStore is an in-memory implementation of storage.IssuanceEventStore.
type IssuanceEventStore struct {
	mu     sync.RWMutex
	byID   map[string]struct{}
	byMint map[string][]*domain.IssuanceEvent
}

// NewIssuanceEventStore creates a new in-memory issuance event store.
func NewIssuanceEventStore() *IssuanceEventStore {
	return &IssuanceEventStore{
		byID:   make(map[string]struct{}),
		byMint: make(map[string][]*domain.IssuanceEvent),
	}
}

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *IssuanceEventStore) Insert(_ context.Context, e *domain.IssuanceEvent) error {
	if e == nil || e.EventID == "" || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byID[e.EventID]; exists {
		return storage.ErrDuplicateKey
	}

	eventCopy := *e
	s.byID[e.EventID] = struct{}{}
	s.byMint[e.Mint] = append(s.byMint[e.Mint], &eventCopy)
	return nil
}

// GetByMint retrieves all events for a mint, ordered by timestamp then supply.
func (s *IssuanceEventStore) GetByMint(_ context.Context, mint string) ([]*domain.IssuanceEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	events := s.byMint[mint]
	result := make([]*domain.IssuanceEvent, len(events))
	for i, e := range events {
		eventCopy := *e
		result[i] = &eventCopy
	}

	sort.SliceStable(result, func(i, j int) bool {
		if result[i].TimestampMs != result[j].TimestampMs {
			return result[i].TimestampMs < result[j].TimestampMs
		}
		return result[i].SupplyAfter < result[j].SupplyAfter
	})
	return result, nil
}

var _ storage.IssuanceEventStore = (*IssuanceEventStore)(nil)
