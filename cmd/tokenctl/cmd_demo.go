package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"solana-token-manager/internal/manager"
	"solana-token-manager/internal/reporting"
	"solana-token-manager/internal/solana"
)

var (
	demoDecimals uint8
	demoMint     uint64
)

// demoCmd runs create + mint + report in one process
var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Create a token, mint more and write the registry in one run",
	Long: `Runs the full flow against the configured backend with a throwaway
authority: create_token, mint_tokens, a rejected mint from a second signer,
and the registry report. Useful with the in-memory backend, whose state does
not outlive a single command.`,
	RunE: runDemo,
}

func init() {
	demoCmd.Flags().Uint8Var(&demoDecimals, "decimals", 6, "Decimal places of the demo token")
	demoCmd.Flags().Uint64Var(&demoMint, "amount", 42, "Base units to mint after creation")
}

func runDemo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	authority, err := solana.NewKeypair()
	if err != nil {
		return err
	}

	res, err := m.CreateToken(ctx, manager.CreateTokenRequest{
		Authority: authority,
		Decimals:  demoDecimals,
		Name:      "Example",
		Symbol:    "EX",
	})
	if err != nil {
		return fmt.Errorf("create token: %w", err)
	}
	fmt.Fprintf(out, "Created %s (%s) mint=%s supply=%s\n", res.Metadata.Name, res.Metadata.Symbol,
		res.Mint.Address(), reporting.FormatAmount(res.Receipt.Events[0].SupplyAfter, demoDecimals))

	receipt, err := m.MintTokens(ctx, manager.MintTokensRequest{
		Authority: authority,
		Mint:      res.Mint.PublicKey,
		Amount:    demoMint,
	})
	if err != nil {
		return fmt.Errorf("mint tokens: %w", err)
	}
	fmt.Fprintf(out, "Minted %d base units, supply now %d\n", demoMint, receipt.Events[0].SupplyAfter)

	intruder, err := solana.NewKeypair()
	if err != nil {
		return err
	}
	_, err = m.MintTokens(ctx, manager.MintTokensRequest{
		Authority:    intruder,
		Mint:         res.Mint.PublicKey,
		TokenAccount: res.TokenAccount,
		Amount:       1,
	})
	fmt.Fprintf(out, "Mint by a non-authority rejected: %s\n", manager.ErrorKind(err))

	paths, err := writeRegistry(ctx, m, cfg.Reports.OutputDir)
	if err != nil {
		return err
	}
	for _, p := range paths {
		fmt.Fprintf(out, "Wrote %s\n", p)
	}
	return nil
}
