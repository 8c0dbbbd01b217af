package ledger

import "errors"

// Token ledger errors. They mirror the failure modes of the SPL token program.
var (
	// ErrAlreadyInUse is returned when initializing an account that exists.
	ErrAlreadyInUse = errors.New("account already in use")

	// ErrUninitializedAccount is returned when a mint or token account does not exist.
	ErrUninitializedAccount = errors.New("account not initialized")

	// ErrMintMismatch is returned when a token account belongs to a different mint.
	ErrMintMismatch = errors.New("account not associated with this mint")

	// ErrOwnerMismatch is returned when the presented authority is not the mint authority.
	ErrOwnerMismatch = errors.New("owner does not match")

	// ErrFixedSupply is returned when minting against a mint without a mint authority.
	ErrFixedSupply = errors.New("fixed supply: mint authority is not set")

	// ErrOverflow is returned when supply or balance would exceed u64.
	ErrOverflow = errors.New("operation overflowed")
)
