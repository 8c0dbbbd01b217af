package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// TokenMetadataStore implements storage.TokenMetadataStore using PostgreSQL.
type TokenMetadataStore struct {
	db querier
}

// NewTokenMetadataStore creates a new TokenMetadataStore.
func NewTokenMetadataStore(pool *Pool) *TokenMetadataStore {
	return &TokenMetadataStore{db: pool}
}

// Compile-time interface check.
var _ storage.TokenMetadataStore = (*TokenMetadataStore)(nil)

const tokenMetadataColumns = `address, mint, decimals, name, symbol, authority, created_at`

// Insert adds a new record. Returns ErrDuplicateKey if address or mint exists.
func (s *TokenMetadataStore) Insert(ctx context.Context, m *domain.TokenMetadata) error {
	query := `
		INSERT INTO token_info (
			address, mint, decimals, name, symbol, authority, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := s.db.Exec(ctx, query,
		m.Address,
		m.Mint,
		int16(m.Decimals),
		m.Name,
		m.Symbol,
		m.Authority,
		m.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token info: %w", err)
	}
	return nil
}

// GetByAddress retrieves a record by address. Returns ErrNotFound if not exists.
func (s *TokenMetadataStore) GetByAddress(ctx context.Context, address string) (*domain.TokenMetadata, error) {
	query := `SELECT ` + tokenMetadataColumns + ` FROM token_info WHERE address = $1`

	m, err := scanTokenMetadata(s.db.QueryRow(ctx, query, address))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token info by address: %w", err)
	}
	return m, nil
}

// GetByMint retrieves a record by mint address. Returns ErrNotFound if not exists.
func (s *TokenMetadataStore) GetByMint(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	query := `SELECT ` + tokenMetadataColumns + ` FROM token_info WHERE mint = $1`

	m, err := scanTokenMetadata(s.db.QueryRow(ctx, query, mint))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token info by mint: %w", err)
	}
	return m, nil
}

// List retrieves all records ordered by created_at, address.
func (s *TokenMetadataStore) List(ctx context.Context) ([]*domain.TokenMetadata, error) {
	query := `SELECT ` + tokenMetadataColumns + ` FROM token_info ORDER BY created_at ASC, address ASC`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list token info: %w", err)
	}
	defer rows.Close()

	var result []*domain.TokenMetadata
	for rows.Next() {
		m, err := scanTokenMetadata(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token info: %w", err)
		}
		result = append(result, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token info: %w", err)
	}
	return result, nil
}

// scanTokenMetadata scans a single row into TokenMetadata.
func scanTokenMetadata(row pgx.Row) (*domain.TokenMetadata, error) {
	var m domain.TokenMetadata
	var decimals int16

	err := row.Scan(
		&m.Address,
		&m.Mint,
		&decimals,
		&m.Name,
		&m.Symbol,
		&m.Authority,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Decimals = uint8(decimals)
	return &m, nil
}
