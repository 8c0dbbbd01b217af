package reporting

import "time"

// Report is the token registry: every token created through the gateway
// with its current ledger state.
type Report struct {
	// Metadata
	GeneratedAt time.Time
	ProgramID   string

	Summary Summary

	// Tokens sorted by created_at, address
	Tokens []TokenRow
}

// Summary contains registry totals.
type Summary struct {
	TotalTokens     int
	TotalIssuances  int
	StaleAuthority  int // tokens whose recorded administrator no longer holds mint authority
	FixedSupply     int // tokens without a mint authority
	EarliestCreated int64 // Unix ms
	LatestCreated   int64 // Unix ms
}

// TokenRow represents one row in the registry table.
type TokenRow struct {
	Address        string // metadata record address
	Mint           string
	Name           string
	Symbol         string
	Decimals       uint8
	Supply         uint64 // base units
	Authority      string // administrator recorded at creation
	MintAuthority  string // current ledger mint authority, "" if revoked
	AuthorityStale bool
	Issuances      int
	CreatedAt      int64 // Unix ms
}
