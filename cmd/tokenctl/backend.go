package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"solana-token-manager/internal/config"
	"solana-token-manager/internal/manager"
	"solana-token-manager/internal/program"
	"solana-token-manager/internal/solana"
	"solana-token-manager/internal/storage"
	chstore "solana-token-manager/internal/storage/clickhouse"
	"solana-token-manager/internal/storage/memory"
	pgstore "solana-token-manager/internal/storage/postgres"
)

// backend bundles the stores a command runs against.
type backend struct {
	runner   storage.TxRunner
	metadata storage.TokenMetadataStore
	mints    storage.MintStore
	accounts storage.TokenAccountStore
	history  storage.IssuanceEventStore

	historyDB string
	closers   []func()
}

func (b *backend) Close() {
	for i := len(b.closers) - 1; i >= 0; i-- {
		b.closers[i]()
	}
}

// openBackend connects the stores selected by the configuration.
func openBackend(ctx context.Context, c *config.Config) (*backend, error) {
	b := &backend{}

	switch c.Storage.Backend {
	case config.BackendPostgres:
		pool, err := pgstore.NewPool(ctx, c.Storage.PostgresDSN)
		if err != nil {
			return nil, fmt.Errorf("connect postgres: %w", err)
		}
		b.closers = append(b.closers, pool.Close)
		b.runner = pgstore.NewTxRunner(pool)
		b.metadata = pgstore.NewTokenMetadataStore(pool)
		b.mints = pgstore.NewMintStore(pool)
		b.accounts = pgstore.NewTokenAccountStore(pool)
		logger.Debug("Using PostgreSQL account storage")
	default:
		db := memory.NewDB()
		b.runner = db
		b.metadata = db.Metadata()
		b.mints = db.Mints()
		b.accounts = db.TokenAccounts()
		logger.Debug("Using in-memory account storage; state is discarded on exit")
	}

	if c.Storage.ClickHouseDSN != "" {
		conn, err := chstore.NewConn(ctx, c.Storage.ClickHouseDSN)
		if err != nil {
			b.Close()
			return nil, fmt.Errorf("connect clickhouse: %w", err)
		}
		b.closers = append(b.closers, func() { _ = conn.Close() })
		b.history = chstore.NewIssuanceEventStore(conn)
		b.historyDB = "clickhouse"
	} else {
		b.history = memory.NewIssuanceEventStore()
		b.historyDB = "memory"
	}

	return b, nil
}

// newManager opens the backend and builds a manager over it.
func newManager(ctx context.Context) (*manager.Manager, *backend, error) {
	programID, err := solana.ParsePublicKey(cfg.ProgramID)
	if err != nil {
		return nil, nil, fmt.Errorf("program_id: %w", err)
	}

	b, err := openBackend(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	m := manager.New(manager.Options{
		Program:       program.New(programID, cfg.ProgramOptions()),
		Runner:        b.runner,
		MetadataStore: b.metadata,
		MintStore:     b.mints,
		AccountStore:  b.accounts,
		HistoryStore:  b.history,
		HistoryDB:     b.historyDB,
		Logger:        logger.With(zap.String("program_id", programID.String())),
		Metrics:       metrics,
	})
	return m, b, nil
}

// loadSigner reads the keypair at path, falling back to the configured keypair.
func loadSigner(path string) (*solana.Keypair, error) {
	if path == "" {
		path = cfg.Keypair
	}
	k, err := solana.LoadKeypairFile(path)
	if err != nil {
		return nil, fmt.Errorf("load keypair: %w", err)
	}
	return k, nil
}
