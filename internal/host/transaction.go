package host

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/mr-tron/base58"

	"solana-token-manager/internal/program"
	"solana-token-manager/internal/solana"
)

// Transaction is one instruction plus the signatures authorizing it.
type Transaction struct {
	Nonce       uuid.UUID
	Instruction program.Instruction
	Signatures  map[solana.PublicKey][]byte
}

// NewTransaction wraps ix with a fresh nonce.
func NewTransaction(ix program.Instruction) *Transaction {
	return &Transaction{
		Nonce:       uuid.New(),
		Instruction: ix,
		Signatures:  make(map[solana.PublicKey][]byte),
	}
}

// Message returns the bytes every signer signs:
// program_id | nonce | (key | signer | writable)* | data
func (tx *Transaction) Message() []byte {
	ix := tx.Instruction
	msg := make([]byte, 0, solana.PublicKeySize+len(tx.Nonce)+len(ix.Accounts)*(solana.PublicKeySize+2)+len(ix.Data))
	msg = append(msg, ix.ProgramID[:]...)
	msg = append(msg, tx.Nonce[:]...)
	for _, a := range ix.Accounts {
		msg = append(msg, a.PublicKey[:]...)
		msg = append(msg, boolByte(a.IsSigner), boolByte(a.IsWritable))
	}
	return append(msg, ix.Data...)
}

// Sign adds signatures of the given keypairs. Each must appear as a signer
// in the account list.
func (tx *Transaction) Sign(signers ...*solana.Keypair) error {
	msg := tx.Message()
	for _, k := range signers {
		if !tx.requiresSigner(k.PublicKey) {
			return fmt.Errorf("%s is not a signer of this transaction", k.PublicKey)
		}
		tx.Signatures[k.PublicKey] = k.Sign(msg)
	}
	return nil
}

// Signature returns the base58 signature of the first signer, which identifies
// the transaction. Empty if the first signer has not signed.
func (tx *Transaction) Signature() string {
	for _, a := range tx.Instruction.Accounts {
		if !a.IsSigner {
			continue
		}
		sig, ok := tx.Signatures[a.PublicKey]
		if !ok {
			return ""
		}
		return base58.Encode(sig)
	}
	return ""
}

// verify checks a valid signature exists for every signer account.
func (tx *Transaction) verify() error {
	msg := tx.Message()
	for _, a := range tx.Instruction.Accounts {
		if !a.IsSigner {
			continue
		}
		sig, ok := tx.Signatures[a.PublicKey]
		if !ok {
			return fmt.Errorf("%w: %s did not sign", program.ErrSignature, a.PublicKey)
		}
		if err := solana.Verify(a.PublicKey, msg, sig); err != nil {
			return fmt.Errorf("%w: %s: %w", program.ErrSignature, a.PublicKey, err)
		}
	}
	return nil
}

func (tx *Transaction) requiresSigner(pk solana.PublicKey) bool {
	for _, a := range tx.Instruction.Accounts {
		if a.IsSigner && a.PublicKey == pk {
			return true
		}
	}
	return false
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
