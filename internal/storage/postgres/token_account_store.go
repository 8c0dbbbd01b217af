package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/storage"
)

// TokenAccountStore implements storage.TokenAccountStore using PostgreSQL.
type TokenAccountStore struct {
	db   querier
	lock bool
}

// NewTokenAccountStore creates a new TokenAccountStore.
func NewTokenAccountStore(pool *Pool) *TokenAccountStore {
	return &TokenAccountStore{db: pool}
}

// Compile-time interface check.
var _ storage.TokenAccountStore = (*TokenAccountStore)(nil)

// Insert adds a new account. Returns ErrDuplicateKey if address exists.
func (s *TokenAccountStore) Insert(ctx context.Context, a *domain.TokenAccount) error {
	query := `
		INSERT INTO token_accounts (
			address, mint, owner, amount, created_at
		) VALUES ($1, $2, $3, $4::NUMERIC, $5)
	`

	_, err := s.db.Exec(ctx, query,
		a.Address,
		a.Mint,
		a.Owner,
		formatU64(a.Amount),
		a.CreatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("insert token account: %w", err)
	}
	return nil
}

// Get retrieves an account by address. Returns ErrNotFound if not exists.
func (s *TokenAccountStore) Get(ctx context.Context, address string) (*domain.TokenAccount, error) {
	query := `
		SELECT address, mint, owner, amount::TEXT, created_at
		FROM token_accounts
		WHERE address = $1
	`
	if s.lock {
		query += ` FOR UPDATE`
	}

	a, err := scanTokenAccount(s.db.QueryRow(ctx, query, address))
	if err != nil {
		if isNotFoundError(err) {
			return nil, storage.ErrNotFound
		}
		return nil, fmt.Errorf("get token account: %w", err)
	}
	return a, nil
}

// GetByOwner retrieves all accounts of an owner ordered by address.
func (s *TokenAccountStore) GetByOwner(ctx context.Context, owner string) ([]*domain.TokenAccount, error) {
	query := `
		SELECT address, mint, owner, amount::TEXT, created_at
		FROM token_accounts
		WHERE owner = $1
		ORDER BY address ASC
	`

	rows, err := s.db.Query(ctx, query, owner)
	if err != nil {
		return nil, fmt.Errorf("query token accounts by owner: %w", err)
	}
	defer rows.Close()

	var result []*domain.TokenAccount
	for rows.Next() {
		a, err := scanTokenAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan token account: %w", err)
		}
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate token accounts: %w", err)
	}
	return result, nil
}

// UpdateAmount overwrites the balance of an existing account.
func (s *TokenAccountStore) UpdateAmount(ctx context.Context, address string, amount uint64) error {
	tag, err := s.db.Exec(ctx, `UPDATE token_accounts SET amount = $2::NUMERIC WHERE address = $1`, address, formatU64(amount))
	if err != nil {
		return fmt.Errorf("update token account amount: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func scanTokenAccount(row pgx.Row) (*domain.TokenAccount, error) {
	var a domain.TokenAccount
	var amount string

	err := row.Scan(
		&a.Address,
		&a.Mint,
		&a.Owner,
		&amount,
		&a.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	if a.Amount, err = parseU64(amount); err != nil {
		return nil, err
	}
	return &a, nil
}
