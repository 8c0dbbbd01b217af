package program

import "errors"

// Gateway error kinds. Every error returned by Process wraps exactly one of them.
var (
	// ErrSignature is returned when a required signer did not sign.
	ErrSignature = errors.New("missing or invalid signature")

	// ErrStorageCollision is returned when a target account is already initialized.
	ErrStorageCollision = errors.New("account already initialized")

	// ErrDelegation is returned when the token ledger rejects a call.
	ErrDelegation = errors.New("token ledger rejected the call")

	// ErrArithmeticOverflow is returned when the initial supply does not fit in u64.
	ErrArithmeticOverflow = errors.New("arithmetic overflow")

	// ErrNameTooLong is returned when the name exceeds MaxNameLength bytes.
	ErrNameTooLong = errors.New("name too long")

	// ErrSymbolTooLong is returned when the symbol exceeds MaxSymbolLength bytes.
	ErrSymbolTooLong = errors.New("symbol too long")

	// ErrInvalidAccount is returned when an account list does not match the instruction.
	ErrInvalidAccount = errors.New("invalid account")

	// ErrInvalidInstruction is returned for unknown discriminators or malformed data.
	ErrInvalidInstruction = errors.New("invalid instruction data")

	// ErrStorage is returned when the account store itself fails. The cause
	// is wrapped alongside it.
	ErrStorage = errors.New("account storage failure")
)
