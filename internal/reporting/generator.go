package reporting

import (
	"context"
	"fmt"
	"time"

	"solana-token-manager/internal/storage"
)

// Generator produces registry reports from stored data.
type Generator struct {
	programID     string
	metadataStore storage.TokenMetadataStore
	mintStore     storage.MintStore
	historyStore  storage.IssuanceEventStore // optional
	now           func() time.Time           // Injectable clock for deterministic output
}

// NewGenerator creates a new report generator. historyStore may be nil.
func NewGenerator(
	programID string,
	metadataStore storage.TokenMetadataStore,
	mintStore storage.MintStore,
	historyStore storage.IssuanceEventStore,
) *Generator {
	return &Generator{
		programID:     programID,
		metadataStore: metadataStore,
		mintStore:     mintStore,
		historyStore:  historyStore,
		now:           func() time.Time { return time.Now().UTC() },
	}
}

// WithClock sets a custom clock function for deterministic output.
func (g *Generator) WithClock(now func() time.Time) *Generator {
	g.now = now
	return g
}

// Generate produces the registry report.
func (g *Generator) Generate(ctx context.Context) (*Report, error) {
	records, err := g.metadataStore.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list token info: %w", err)
	}

	report := &Report{
		GeneratedAt: g.now(),
		ProgramID:   g.programID,
		Tokens:      make([]TokenRow, 0, len(records)),
	}

	for _, rec := range records {
		mint, err := g.mintStore.Get(ctx, rec.Mint)
		if err != nil {
			return nil, fmt.Errorf("mint %s: %w", rec.Mint, err)
		}

		row := TokenRow{
			Address:   rec.Address,
			Mint:      rec.Mint,
			Name:      rec.Name,
			Symbol:    rec.Symbol,
			Decimals:  rec.Decimals,
			Supply:    mint.Supply,
			Authority: rec.Authority,
			CreatedAt: rec.CreatedAt,
		}
		if mint.MintAuthority != nil {
			row.MintAuthority = *mint.MintAuthority
		}
		row.AuthorityStale = row.MintAuthority != rec.Authority

		if g.historyStore != nil {
			events, err := g.historyStore.GetByMint(ctx, rec.Mint)
			if err != nil {
				return nil, fmt.Errorf("issuance history %s: %w", rec.Mint, err)
			}
			row.Issuances = len(events)
		}

		report.Tokens = append(report.Tokens, row)
		summarize(&report.Summary, row)
	}

	return report, nil
}

func summarize(s *Summary, row TokenRow) {
	if s.TotalTokens == 0 || row.CreatedAt < s.EarliestCreated {
		s.EarliestCreated = row.CreatedAt
	}
	if row.CreatedAt > s.LatestCreated {
		s.LatestCreated = row.CreatedAt
	}
	s.TotalTokens++
	s.TotalIssuances += row.Issuances
	if row.MintAuthority == "" {
		s.FixedSupply++
	}
	if row.AuthorityStale {
		s.StaleAuthority++
	}
}
