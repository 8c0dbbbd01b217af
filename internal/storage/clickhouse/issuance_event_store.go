package clickhouse

import (
	"context"
	"fmt"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// IssuanceEventStore implements storage.IssuanceEventStore using ClickHouse.
type IssuanceEventStore struct {
	conn *Conn
}

// NewIssuanceEventStore creates a new IssuanceEventStore.
func NewIssuanceEventStore(conn *Conn) *IssuanceEventStore {
	return &IssuanceEventStore{conn: conn}
}

// Compile-time interface check.
var _ storage.IssuanceEventStore = (*IssuanceEventStore)(nil)

// Insert adds a new event. Returns ErrDuplicateKey if event_id exists.
func (s *IssuanceEventStore) Insert(ctx context.Context, e *domain.IssuanceEvent) error {
	if e == nil || e.EventID == "" || e.Mint == "" {
		return storage.ErrInvalidInput
	}

	// MergeTree does not enforce uniqueness; check explicitly for append-only semantics.
	exists, err := s.exists(ctx, e.Mint, e.EventID)
	if err != nil {
		return fmt.Errorf("check exists: %w", err)
	}
	if exists {
		return storage.ErrDuplicateKey
	}

	query := `
		INSERT INTO issuance_events (
			event_id, kind, mint, token_account, authority,
			amount, supply_after, signature, timestamp_ms
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	err = s.conn.Exec(ctx, query,
		e.EventID, string(e.Kind), e.Mint, e.TokenAccount, e.Authority,
		e.Amount, e.SupplyAfter, e.Signature, e.TimestampMs,
	)
	if err != nil {
		return fmt.Errorf("insert issuance event: %w", err)
	}
	return nil
}

// GetByMint retrieves all events for a mint ordered by timestamp, supply_after.
func (s *IssuanceEventStore) GetByMint(ctx context.Context, mint string) ([]*domain.IssuanceEvent, error) {
	query := `
		SELECT
			event_id, kind, mint, token_account, authority,
			amount, supply_after, signature, timestamp_ms
		FROM issuance_events FINAL
		WHERE mint = ?
		ORDER BY timestamp_ms ASC, supply_after ASC
	`

	rows, err := s.conn.Query(ctx, query, mint)
	if err != nil {
		return nil, fmt.Errorf("query issuance events: %w", err)
	}
	defer rows.Close()

	var result []*domain.IssuanceEvent
	for rows.Next() {
		var e domain.IssuanceEvent
		var kind string
		if err := rows.Scan(
			&e.EventID, &kind, &e.Mint, &e.TokenAccount, &e.Authority,
			&e.Amount, &e.SupplyAfter, &e.Signature, &e.TimestampMs,
		); err != nil {
			return nil, fmt.Errorf("scan issuance event: %w", err)
		}
		e.Kind = domain.IssuanceKind(kind)
		result = append(result, &e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate issuance events: %w", err)
	}

	return result, nil
}

func (s *IssuanceEventStore) exists(ctx context.Context, mint, eventID string) (bool, error) {
	var count uint64
	err := s.conn.QueryRow(ctx,
		`SELECT count() FROM issuance_events WHERE mint = ? AND event_id = ?`,
		mint, eventID,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
