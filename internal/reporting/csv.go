package reporting

import (
	"encoding/csv"
	"strconv"
	"strings"
)

// RenderCSV renders registry rows as CSV string.
func RenderCSV(rows []TokenRow) (string, error) {
	var sb strings.Builder
	w := csv.NewWriter(&sb)

	// Header
	if err := w.Write([]string{
		"address", "mint", "name", "symbol", "decimals", "supply",
		"authority", "mint_authority", "authority_stale", "issuances", "created_at",
	}); err != nil {
		return "", err
	}

	// Rows
	for _, r := range rows {
		if err := w.Write([]string{
			r.Address,
			r.Mint,
			r.Name,
			r.Symbol,
			strconv.FormatUint(uint64(r.Decimals), 10),
			strconv.FormatUint(r.Supply, 10),
			r.Authority,
			r.MintAuthority,
			strconv.FormatBool(r.AuthorityStale),
			strconv.Itoa(r.Issuances),
			strconv.FormatInt(r.CreatedAt, 10),
		}); err != nil {
			return "", err
		}
	}

	w.Flush()
	return sb.String(), w.Error()
}
