package domain

// IssuanceKind identifies why supply was created.
type IssuanceKind string

const (
	// IssuanceCreate is the initial supply minted by create_token.
	IssuanceCreate IssuanceKind = "CREATE"

	// IssuanceMint is a follow-up mint_tokens call.
	IssuanceMint IssuanceKind = "MINT"
)

// IssuanceEvent records one successful supply increase.
// Corresponds to issuance_events table in ClickHouse.
type IssuanceEvent struct {
	EventID      string       // deterministic hash of signature|kind|mint|index
	Kind         IssuanceKind // CREATE or MINT
	Mint         string       // mint address
	TokenAccount string       // credited holding account
	Authority    string       // signer presented as mint authority
	Amount       uint64       // base units minted
	SupplyAfter  uint64       // mint supply after the event
	Signature    string       // base58 signature of the transaction
	TimestampMs  int64        // execution time (ms)
}
