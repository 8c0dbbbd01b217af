// Package host executes gateway transactions with all-or-nothing semantics:
// signatures are verified, the instruction runs inside one storage
// transaction and either every write commits or none does.
package host

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/blocto/solana-go-sdk/types"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/idhash"
	"solana-token-manager/internal/program"
	"solana-token-manager/internal/storage"
)

var (
	// ErrProgramMismatch is returned when a transaction targets another program.
	ErrProgramMismatch = errors.New("transaction targets an unknown program")

	// ErrDuplicateTransaction is returned when a signature was already processed.
	ErrDuplicateTransaction = errors.New("transaction already processed")
)

// Receipt describes a committed transaction.
type Receipt struct {
	Signature         string
	Instruction       string
	InnerInstructions []types.Instruction
	Metadata          *domain.TokenMetadata   // set by create_token
	Events            []*domain.IssuanceEvent // issuance events, ids assigned
	ExecutedAt        time.Time
}

// Executor runs transactions for one program.
//
// Replays are rejected twice over: the signature of every committed
// transaction is recorded through storage.Tx.MarkProcessed with its account
// writes, which holds across processes sharing a backend, and a process-local
// set also rejects resubmission of signatures that failed here.
type Executor struct {
	runner  storage.TxRunner
	program *program.Program
	now     func() time.Time

	mu   sync.Mutex
	seen map[string]struct{}
}

// NewExecutor creates an executor committing through runner.
func NewExecutor(runner storage.TxRunner, prog *program.Program) *Executor {
	return &Executor{
		runner:  runner,
		program: prog,
		now:     time.Now,
		seen:    make(map[string]struct{}),
	}
}

// WithClock overrides the execution time source.
func (e *Executor) WithClock(now func() time.Time) *Executor {
	e.now = now
	return e
}

// Execute verifies and runs tx. On error nothing is written.
func (e *Executor) Execute(ctx context.Context, tx *Transaction) (*Receipt, error) {
	if tx.Instruction.ProgramID != e.program.ID() {
		return nil, fmt.Errorf("%w: %s", ErrProgramMismatch, tx.Instruction.ProgramID)
	}
	if err := tx.verify(); err != nil {
		return nil, err
	}

	sig := tx.Signature()
	if sig == "" {
		return nil, fmt.Errorf("%w: transaction has no signers", program.ErrSignature)
	}
	if err := e.reserve(sig); err != nil {
		return nil, err
	}

	now := e.now()
	var (
		res   *program.Result
		inner []types.Instruction
	)
	err := e.runner.WithinTx(ctx, func(ctx context.Context, stx storage.Tx) error {
		if err := stx.MarkProcessed(ctx, sig, now.UnixMilli()); err != nil {
			if errors.Is(err, storage.ErrDuplicateKey) {
				return fmt.Errorf("%w: %s", ErrDuplicateTransaction, sig)
			}
			return fmt.Errorf("%w: record signature: %w", program.ErrStorage, err)
		}

		env := program.NewEnv(stx, now)
		r, err := e.program.Process(ctx, env, tx.Instruction.Accounts, tx.Instruction.Data)
		if err != nil {
			return err
		}
		res = r
		inner = env.InnerInstructions()
		return nil
	})
	if err != nil {
		return nil, err
	}

	events := make([]*domain.IssuanceEvent, len(res.Issuances))
	for i, ev := range res.Issuances {
		ev.Signature = sig
		ev.EventID = idhash.ComputeIssuanceID(sig, ev.Kind, ev.Mint, i)
		events[i] = ev
	}

	return &Receipt{
		Signature:         sig,
		Instruction:       res.Instruction,
		InnerInstructions: inner,
		Metadata:          res.Metadata,
		Events:            events,
		ExecutedAt:        now,
	}, nil
}

// reserve marks sig as processed. Failed transactions stay reserved.
func (e *Executor) reserve(sig string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, ok := e.seen[sig]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateTransaction, sig)
	}
	e.seen[sig] = struct{}{}
	return nil
}
