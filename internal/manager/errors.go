package manager

import (
	"errors"

	"solana-token-manager/internal/host"
	"solana-token-manager/internal/program"
)

// ErrHistory is returned when a committed transaction could not be recorded
// in the issuance history. The ledger effects stand.
var ErrHistory = errors.New("issuance history not recorded")

// ErrorKind returns a short label for the gateway error kind of err,
// used for metrics and log fields.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, program.ErrSignature):
		return "signature"
	case errors.Is(err, program.ErrStorageCollision):
		return "storage_collision"
	case errors.Is(err, program.ErrDelegation):
		return "delegation"
	case errors.Is(err, program.ErrArithmeticOverflow):
		return "arithmetic_overflow"
	case errors.Is(err, program.ErrNameTooLong), errors.Is(err, program.ErrSymbolTooLong):
		return "length_exceeded"
	case errors.Is(err, program.ErrInvalidAccount):
		return "invalid_account"
	case errors.Is(err, program.ErrInvalidInstruction):
		return "invalid_instruction"
	case errors.Is(err, program.ErrStorage):
		return "storage"
	case errors.Is(err, host.ErrDuplicateTransaction):
		return "duplicate_transaction"
	default:
		return "internal"
	}
}
