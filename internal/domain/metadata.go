package domain

// Text limits for TokenMetadata. Lengths are measured in bytes, the unit the
// on-chain record reserves space in.
const (
	MaxNameLength   = 32
	MaxSymbolLength = 10
)

// TokenInfoAccountSize is the fixed space reserved for a token info record:
// discriminator(8) | mint(32) | decimals(1) | name(4+32) | symbol(4+10) | authority(32).
const TokenInfoAccountSize = 8 + 32 + 1 + (4 + MaxNameLength) + (4 + MaxSymbolLength) + 32

// TokenMetadata is the descriptive record written once per created token.
// Corresponds to token_info table in PostgreSQL.
type TokenMetadata struct {
	Address   string // record handle (token info account address), PK
	Mint      string // ledger entry the record describes (unique)
	Decimals  uint8  // decimal precision, fixed at creation
	Name      string // display name, at most MaxNameLength bytes
	Symbol    string // ticker, at most MaxSymbolLength bytes
	Authority string // administrator recorded at creation
	CreatedAt int64  // record creation timestamp (ms)
}
