package reporting

import (
	"fmt"
	"strings"
	"time"
)

// RenderMarkdown renders report as Markdown string.
func RenderMarkdown(r *Report) string {
	var sb strings.Builder

	// Header
	sb.WriteString("# Token Registry\n\n")
	sb.WriteString(fmt.Sprintf("Generated: %s\n\n", r.GeneratedAt.Format(time.RFC3339)))
	sb.WriteString(fmt.Sprintf("Program: `%s`\n\n", r.ProgramID))

	// Summary
	sb.WriteString("## Summary\n\n")
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Tokens | %d |\n", r.Summary.TotalTokens))
	sb.WriteString(fmt.Sprintf("| Issuance Events | %d |\n", r.Summary.TotalIssuances))
	sb.WriteString(fmt.Sprintf("| Fixed Supply | %d |\n", r.Summary.FixedSupply))
	sb.WriteString(fmt.Sprintf("| Stale Administrator | %d |\n", r.Summary.StaleAuthority))
	sb.WriteString(fmt.Sprintf("| First Created (ms) | %d |\n", r.Summary.EarliestCreated))
	sb.WriteString(fmt.Sprintf("| Last Created (ms) | %d |\n", r.Summary.LatestCreated))
	sb.WriteString("\n")

	// Tokens
	sb.WriteString("## Tokens\n\n")
	if len(r.Tokens) > 0 {
		sb.WriteString("| Symbol | Name | Mint | Decimals | Supply | Administrator | Issuances |\n")
		sb.WriteString("|--------|------|------|----------|--------|---------------|-----------|\n")
		for _, t := range r.Tokens {
			admin := t.Authority
			if t.AuthorityStale {
				admin += " (stale)"
			}
			sb.WriteString(fmt.Sprintf("| %s | %s | %s | %d | %s | %s | %d |\n",
				escapeCell(t.Symbol), escapeCell(t.Name), t.Mint, t.Decimals,
				FormatAmount(t.Supply, t.Decimals), admin, t.Issuances))
		}
	} else {
		sb.WriteString("No tokens created.\n")
	}
	sb.WriteString("\n")

	return sb.String()
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
