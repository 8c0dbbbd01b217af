// Package manager is the client side of the token manager: it builds and
// signs gateway transactions, submits them to the executor, records the
// resulting issuance history and serves read queries.
package manager

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/host"
	"solana-token-manager/internal/observability"
	"solana-token-manager/internal/program"
	"solana-token-manager/internal/reporting"
	"solana-token-manager/internal/solana"
	"solana-token-manager/internal/storage"
)

// Manager orchestrates token creation and minting.
type Manager struct {
	program  *program.Program
	executor *host.Executor

	metadataStore storage.TokenMetadataStore
	mintStore     storage.MintStore
	accountStore  storage.TokenAccountStore
	historyStore  storage.IssuanceEventStore
	historyDB     string

	logger  *zap.Logger
	metrics *observability.Metrics
	now     func() time.Time
}

// Options contains configuration for creating a Manager.
type Options struct {
	Program *program.Program
	Runner  storage.TxRunner

	MetadataStore storage.TokenMetadataStore
	MintStore     storage.MintStore
	AccountStore  storage.TokenAccountStore
	HistoryStore  storage.IssuanceEventStore

	// HistoryDB labels history writes in metrics (memory, clickhouse).
	HistoryDB string

	Logger  *zap.Logger
	Metrics *observability.Metrics
	Clock   func() time.Time
}

// New creates a manager. Logger, Metrics and Clock are optional.
func New(opts Options) *Manager {
	m := &Manager{
		program:       opts.Program,
		executor:      host.NewExecutor(opts.Runner, opts.Program),
		metadataStore: opts.MetadataStore,
		mintStore:     opts.MintStore,
		accountStore:  opts.AccountStore,
		historyStore:  opts.HistoryStore,
		historyDB:     opts.HistoryDB,
		logger:        opts.Logger,
		metrics:       opts.Metrics,
		now:           opts.Clock,
	}
	if m.logger == nil {
		m.logger = zap.NewNop()
	}
	if m.metrics == nil {
		m.metrics = observability.NewMetrics("")
	}
	if m.now == nil {
		m.now = time.Now
	}
	if m.historyDB == "" {
		m.historyDB = "memory"
	}
	m.executor.WithClock(m.now)
	return m
}

// CreateTokenRequest describes a token to create. Mint and TokenInfo are
// generated when nil.
type CreateTokenRequest struct {
	Authority *solana.Keypair
	Mint      *solana.Keypair
	TokenInfo *solana.Keypair
	Decimals  uint8
	Name      string
	Symbol    string
}

// CreateTokenResult is the outcome of a committed create_token.
type CreateTokenResult struct {
	Receipt      *host.Receipt
	Metadata     *domain.TokenMetadata
	Mint         *solana.Keypair
	TokenInfo    *solana.Keypair
	TokenAccount solana.PublicKey
}

// CreateToken creates a token, funds the authority's associated token
// account with the initial supply and records the metadata.
func (m *Manager) CreateToken(ctx context.Context, req CreateTokenRequest) (*CreateTokenResult, error) {
	if req.Authority == nil {
		return nil, fmt.Errorf("create token: authority keypair is required")
	}

	mint, err := keypairOrNew(req.Mint)
	if err != nil {
		return nil, err
	}
	info, err := keypairOrNew(req.TokenInfo)
	if err != nil {
		return nil, err
	}

	ata, err := solana.FindAssociatedTokenAddress(req.Authority.PublicKey, mint.PublicKey)
	if err != nil {
		return nil, err
	}

	accounts := program.NewCreateTokenAccounts(req.Authority.PublicKey, mint.PublicKey, ata, info.PublicKey)
	ix, err := m.program.CreateTokenInstruction(accounts, program.CreateTokenArgs{
		Decimals: req.Decimals,
		Name:     req.Name,
		Symbol:   req.Symbol,
	})
	if err != nil {
		return nil, err
	}

	tx := host.NewTransaction(ix)
	if err := tx.Sign(req.Authority, mint, info); err != nil {
		return nil, err
	}

	log := m.logger.With(
		zap.String("op_id", tx.Nonce.String()),
		zap.String("instruction", program.InstructionCreateToken),
		zap.String("mint", mint.Address()),
		zap.String("authority", req.Authority.Address()),
	)
	log.Debug("Submitting transaction", zap.Uint8("decimals", req.Decimals), zap.String("symbol", req.Symbol))

	receipt, err := m.execute(ctx, log, program.InstructionCreateToken, tx)
	if err != nil {
		return nil, err
	}

	m.metrics.RecordTokenCreated()
	log.Info("Token created",
		zap.String("signature", receipt.Signature),
		zap.String("token_info", info.Address()),
		zap.String("token_account", ata.String()),
		zap.Uint64("initial_supply", receipt.Events[0].Amount),
	)

	result := &CreateTokenResult{
		Receipt:      receipt,
		Metadata:     receipt.Metadata,
		Mint:         mint,
		TokenInfo:    info,
		TokenAccount: ata,
	}
	return result, m.recordHistory(ctx, log, receipt)
}

// MintTokensRequest describes a follow-up mint. TokenAccount defaults to the
// authority's associated token account for Mint.
type MintTokensRequest struct {
	Authority    *solana.Keypair
	Mint         solana.PublicKey
	TokenAccount solana.PublicKey
	Amount       uint64
}

// MintTokens mints amount base units into the token account.
func (m *Manager) MintTokens(ctx context.Context, req MintTokensRequest) (*host.Receipt, error) {
	if req.Authority == nil {
		return nil, fmt.Errorf("mint tokens: authority keypair is required")
	}

	account := req.TokenAccount
	if account.IsZero() {
		ata, err := solana.FindAssociatedTokenAddress(req.Authority.PublicKey, req.Mint)
		if err != nil {
			return nil, err
		}
		account = ata
	}

	accounts := program.NewMintTokensAccounts(req.Authority.PublicKey, req.Mint, account)
	ix, err := m.program.MintTokensInstruction(accounts, program.MintTokensArgs{Amount: req.Amount})
	if err != nil {
		return nil, err
	}

	tx := host.NewTransaction(ix)
	if err := tx.Sign(req.Authority); err != nil {
		return nil, err
	}

	log := m.logger.With(
		zap.String("op_id", tx.Nonce.String()),
		zap.String("instruction", program.InstructionMintTokens),
		zap.String("mint", req.Mint.String()),
		zap.String("authority", req.Authority.Address()),
	)
	log.Debug("Submitting transaction", zap.String("token_account", account.String()), zap.Uint64("amount", req.Amount))

	receipt, err := m.execute(ctx, log, program.InstructionMintTokens, tx)
	if err != nil {
		return nil, err
	}

	log.Info("Tokens minted",
		zap.String("signature", receipt.Signature),
		zap.Uint64("amount", req.Amount),
		zap.Uint64("supply", receipt.Events[0].SupplyAfter),
	)
	return receipt, m.recordHistory(ctx, log, receipt)
}

func (m *Manager) execute(ctx context.Context, log *zap.Logger, instruction string, tx *host.Transaction) (*host.Receipt, error) {
	start := m.now()
	receipt, err := m.executor.Execute(ctx, tx)
	kind := ErrorKind(err)
	m.metrics.RecordTransaction(instruction, m.now().Sub(start), kind)

	if err != nil {
		log.Warn("Transaction failed", zap.String("error_kind", kind), zap.Error(err))
		return nil, err
	}
	for _, ev := range receipt.Events {
		m.metrics.RecordMinted(ev.Amount)
	}
	return receipt, nil
}

// recordHistory writes issuance events after commit. A failure is reported
// but does not undo the transaction.
func (m *Manager) recordHistory(ctx context.Context, log *zap.Logger, receipt *host.Receipt) error {
	if m.historyStore == nil {
		return nil
	}

	for _, ev := range receipt.Events {
		start := m.now()
		err := m.historyStore.Insert(ctx, ev)
		m.metrics.RecordDBQuery(m.historyDB, "insert_issuance_event", m.now().Sub(start), err)
		m.metrics.RecordIssuanceStored(err)

		if err != nil {
			log.Error("Failed to record issuance event",
				zap.String("event_id", ev.EventID),
				zap.String("signature", receipt.Signature),
				zap.Error(err),
			)
			return fmt.Errorf("%w: event %s: %w", ErrHistory, ev.EventID, err)
		}
	}
	return nil
}

func keypairOrNew(k *solana.Keypair) (*solana.Keypair, error) {
	if k != nil {
		return k, nil
	}
	return solana.NewKeypair()
}

// TokenInfo returns the metadata record at address.
func (m *Manager) TokenInfo(ctx context.Context, address string) (*domain.TokenMetadata, error) {
	return m.metadataStore.GetByAddress(ctx, address)
}

// TokenInfoByMint returns the metadata record describing mint.
func (m *Manager) TokenInfoByMint(ctx context.Context, mint string) (*domain.TokenMetadata, error) {
	return m.metadataStore.GetByMint(ctx, mint)
}

// Mint returns the ledger entry at address.
func (m *Manager) Mint(ctx context.Context, address string) (*domain.Mint, error) {
	return m.mintStore.Get(ctx, address)
}

// Balance returns the token account at address.
func (m *Manager) Balance(ctx context.Context, address string) (*domain.TokenAccount, error) {
	return m.accountStore.Get(ctx, address)
}

// AccountsByOwner returns every token account owned by owner.
func (m *Manager) AccountsByOwner(ctx context.Context, owner string) ([]*domain.TokenAccount, error) {
	return m.accountStore.GetByOwner(ctx, owner)
}

// History returns the issuance events of mint in order.
func (m *Manager) History(ctx context.Context, mint string) ([]*domain.IssuanceEvent, error) {
	if m.historyStore == nil {
		return nil, nil
	}
	return m.historyStore.GetByMint(ctx, mint)
}

// Registry builds the registry report of every token created.
func (m *Manager) Registry(ctx context.Context) (*reporting.Report, error) {
	return reporting.NewGenerator(m.program.ID().String(), m.metadataStore, m.mintStore, m.historyStore).
		WithClock(func() time.Time { return m.now().UTC() }).
		Generate(ctx)
}

// Metrics returns the metrics the manager records into.
func (m *Manager) Metrics() *observability.Metrics {
	return m.metrics
}
