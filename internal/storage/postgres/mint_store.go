package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// MintStore implements storage.MintStore using PostgreSQL.
type MintStore struct {
	db   querier
	lock bool // SELECT ... FOR UPDATE inside transactions
}

// NewMintStore creates a new MintStore.
func NewMintStore(pool *Pool) *MintStore {
	return &MintStore{db: pool}
}

// Compile-time interface check.
var _ storage.MintStore = (*MintStore)(nil)

// Insert adds a new mint. Returns ErrDuplicateKey if address exists.
func (s *MintStore) Insert(ctx context.Context, m *domain.Mint) error {
	query := `
		INSERT INTO mints (
			address, decimals, mint_authority, freeze_authority, supply, created_at
		) VALUES ($1, $2, $3, $4, $5::NUMERIC, $6)
	`

	_, err := s.db.Exec(ctx, query,
		m.Address,
		int16(m.Decimals),
		m.MintAuthority,
		m.FreezeAuthority,
		formatU64(m.Supply),
		m.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert mint: %w", err)
	}
	return nil
}

// Get retrieves a mint by address. Returns ErrNotFound if not exists.
func (s *MintStore) Get(ctx context.Context, address string) (*domain.Mint, error) {
	query := `
		SELECT address, decimals, mint_authority, freeze_authority, supply::TEXT, created_at
		FROM mints
		WHERE address = $1
	`
	if s.lock {
		query += ` FOR UPDATE`
	}

	m, err := scanMint(s.db.QueryRow(ctx, query, address))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get mint: %w", err)
	}
	return m, nil
}

// UpdateSupply overwrites the supply of an existing mint.
func (s *MintStore) UpdateSupply(ctx context.Context, address string, supply uint64) error {
	tag, err := s.db.Exec(ctx, `UPDATE mints SET supply = $2::NUMERIC WHERE address = $1`, address, formatU64(supply))
	if err != nil {
		return fmt.Errorf("update mint supply: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanMint(row pgx.Row) (*domain.Mint, error) {
	var m domain.Mint
	var decimals int16
	var supply string

	err := row.Scan(
		&m.Address,
		&decimals,
		&m.MintAuthority,
		&m.FreezeAuthority,
		&supply,
		&m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	m.Decimals = uint8(decimals)
	if m.Supply, err = parseU64(supply); err != nil {
		return nil, err
	}
	return &m, nil
}
