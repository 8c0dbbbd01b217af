package program

import (
	"time"

	"github.com/blocto/solana-go-sdk/types"

	"solana-token-manager/internal/ledger"
	"solana-token-manager/internal/storage"
)

// Env is the execution context of one instruction: the storage transaction,
// the token ledger bound to it and the inner instructions issued so far.
type Env struct {
	Tx     storage.Tx
	Ledger ledger.Ledger
	Now    time.Time

	inner []types.Instruction
}

// NewEnv binds a token ledger to tx.
func NewEnv(tx storage.Tx, now time.Time) *Env {
	return &Env{
		Tx:     tx,
		Ledger: ledger.ForTx(tx).WithClock(func() time.Time { return now }),
		Now:    now,
	}
}

// InnerInstructions returns the cross-program calls made, in order.
func (e *Env) InnerInstructions() []types.Instruction {
	out := make([]types.Instruction, len(e.inner))
	copy(out, e.inner)
	return out
}

func (e *Env) invoke(ix types.Instruction) {
	e.inner = append(e.inner, ix)
}
