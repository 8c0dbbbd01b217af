package domain

// Mint is a token ledger entry.
// Corresponds to mints table in PostgreSQL.
type Mint struct {
	Address         string  // mint address, PK
	Decimals        uint8   // decimal precision
	MintAuthority   *string // nil once supply is fixed
	FreezeAuthority *string // nullable
	Supply          uint64  // total supply in base units
	CreatedAt       int64   // ms
}

// TokenAccount is a holding account for a single mint.
// Corresponds to token_accounts table in PostgreSQL.
type TokenAccount struct {
	Address   string // token account address, PK
	Mint      string // mint the balance is denominated in
	Owner     string // wallet owning the account
	Amount    uint64 // balance in base units
	CreatedAt int64  // ms
}
