package postgres

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"solana-token-manager/internal/storage"
)

// Pool wraps pgxpool.Pool for dependency injection.
type Pool struct {
	*pgxpool.Pool
}

// NewPool creates a new Postgres connection pool.
func NewPool(ctx context.Context, dsn string) (*Pool, error) {
	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse postgres dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	return &Pool{Pool: pool}, nil
}

// Close closes the connection pool.
func (p *Pool) Close() {
	p.Pool.Close()
}

// querier is satisfied by both *pgxpool.Pool and pgx.Tx.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// TxRunner implements storage.TxRunner on a Postgres pool.
// Rows read through a transaction are locked with SELECT ... FOR UPDATE, so
// concurrent transactions on the same mint or account serialize.
type TxRunner struct {
	pool *Pool
}

// NewTxRunner creates a transaction runner.
func NewTxRunner(pool *Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// Compile-time interface check.
var _ storage.TxRunner = (*TxRunner)(nil)

// WithinTx runs fn in a READ COMMITTED transaction and commits if fn succeeds.
func (r *TxRunner) WithinTx(ctx context.Context, fn func(ctx context.Context, tx storage.Tx) error) error {
	pgTx, err := r.pool.BeginTx(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted})
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		// Rollback after a successful commit is a no-op returning ErrTxClosed.
		_ = pgTx.Rollback(ctx)
	}()

	if err := fn(ctx, &pgStoreTx{q: pgTx}); err != nil {
		return err
	}

	if err := pgTx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// pgStoreTx binds the stores to one pgx.Tx.
type pgStoreTx struct {
	q querier
}

func (t *pgStoreTx) Metadata() storage.TokenMetadataStore {
	return &TokenMetadataStore{db: t.q}
}

func (t *pgStoreTx) Mints() storage.MintStore {
	return &MintStore{db: t.q, lock: true}
}

func (t *pgStoreTx) TokenAccounts() storage.TokenAccountStore {
	return &TokenAccountStore{db: t.q, lock: true}
}

func (t *pgStoreTx) AddressInUse(ctx context.Context, address string) (bool, error) {
	query := `
		SELECT EXISTS (SELECT 1 FROM token_info WHERE address = $1)
			OR EXISTS (SELECT 1 FROM mints WHERE address = $1)
			OR EXISTS (SELECT 1 FROM token_accounts WHERE address = $1)
	`

	var inUse bool
	if err := t.q.QueryRow(ctx, query, address).Scan(&inUse); err != nil {
		return false, fmt.Errorf("check address in use: %w", err)
	}
	return inUse, nil
}

func (t *pgStoreTx) MarkProcessed(ctx context.Context, signature string, processedAt int64) error {
	if signature == "" {
		return storage.ErrInvalidInput
	}

	query := `INSERT INTO processed_transactions (signature, processed_at) VALUES ($1, $2)`
	if _, err := t.q.Exec(ctx, query, signature, processedAt); err != nil {
		if isDuplicateKeyError(err) {
			return storage.ErrDuplicateKey
		}
		return fmt.Errorf("record processed transaction: %w", err)
	}
	return nil
}

// PostgreSQL error codes
const (
	pgErrUniqueViolation = "23505" // unique_violation
)

// isDuplicateKeyError checks if error is a unique constraint violation.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}

	// Use pgconn.PgError for reliable error code detection
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}

	return false
}

// isNotFoundError checks if error indicates no rows found.
func isNotFoundError(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// u64 values are stored as NUMERIC(20,0) and moved as decimal text,
// which avoids the signed BIGINT range.
func formatU64(v uint64) string {
	return strconv.FormatUint(v, 10)
}

func parseU64(s string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("parse u64 %q: %w", s, err)
	}
	return v, nil
}
