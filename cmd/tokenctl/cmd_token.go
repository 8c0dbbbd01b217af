package main

import (
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"solana-token-manager/internal/domain"
	"solana-token-manager/internal/manager"
	"solana-token-manager/internal/program"
	"solana-token-manager/internal/reporting"
	"solana-token-manager/internal/solana"
)

var (
	signerPath string

	createDecimals     uint8
	createName         string
	createSymbol       string
	createMintOut      string
	createTokenInfoOut string

	mintAddress string
	mintAccount string
	mintAmount  uint64

	infoByMint bool
	infoRaw    bool
)

// createTokenCmd creates a token with its metadata record
var createTokenCmd = &cobra.Command{
	Use:   "create-token",
	Short: "Create a token, its metadata record and the initial supply",
	Long: fmt.Sprintf(`Creates a new mint with the signer as mint and freeze authority, creates the
signer's associated token account, mints initial_supply whole tokens into it
and initializes the metadata record. Either everything happens or nothing does.

initial_supply is read from the config file (default %d). The base-unit
amount is initial_supply * 10^decimals and must fit in a u64.

Example:
  tokenctl create-token --name "Example" --symbol EX`, program.DefaultInitialSupply),
	RunE: runCreateToken,
}

// mintCmd mints more supply
var mintCmd = &cobra.Command{
	Use:   "mint",
	Short: "Mint additional base units into a token account",
	Long: `Mints --amount base units of --mint into --account (default: the signer's
associated token account). The signer must be the mint authority.`,
	RunE: runMint,
}

var infoCmd = &cobra.Command{
	Use:   "info [address]",
	Short: "Show a metadata record",
	Args:  cobra.ExactArgs(1),
	RunE:  runInfo,
}

var balanceCmd = &cobra.Command{
	Use:   "balance [token-account]",
	Short: "Show a token account balance",
	Args:  cobra.ExactArgs(1),
	RunE:  runBalance,
}

var historyCmd = &cobra.Command{
	Use:   "history [mint]",
	Short: "List the issuance events of a mint",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

func init() {
	for _, c := range []*cobra.Command{createTokenCmd, mintCmd} {
		c.Flags().StringVarP(&signerPath, "keypair", "k", "", "Authority keypair file (default: configured keypair)")
	}

	createTokenCmd.Flags().Uint8Var(&createDecimals, "decimals", 6, "Decimal places of the token")
	createTokenCmd.Flags().StringVar(&createName, "name", "", "Token name (at most 32 bytes)")
	createTokenCmd.Flags().StringVar(&createSymbol, "symbol", "", "Token symbol (at most 10 bytes)")
	createTokenCmd.Flags().StringVar(&createMintOut, "mint-keypair-out", "", "Save the generated mint keypair")
	createTokenCmd.Flags().StringVar(&createTokenInfoOut, "token-info-keypair-out", "", "Save the generated metadata record keypair")
	_ = createTokenCmd.MarkFlagRequired("name")
	_ = createTokenCmd.MarkFlagRequired("symbol")

	mintCmd.Flags().StringVar(&mintAddress, "mint", "", "Mint address")
	mintCmd.Flags().StringVar(&mintAccount, "account", "", "Destination token account (default: signer's associated token account)")
	mintCmd.Flags().Uint64Var(&mintAmount, "amount", 0, "Amount in base units")
	_ = mintCmd.MarkFlagRequired("mint")
	_ = mintCmd.MarkFlagRequired("amount")

	infoCmd.Flags().BoolVar(&infoByMint, "mint", false, "Treat the argument as a mint address")
	infoCmd.Flags().BoolVar(&infoRaw, "raw", false, "Print the encoded account data")
}

func runCreateToken(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	authority, err := loadSigner(signerPath)
	if err != nil {
		return err
	}

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	res, err := m.CreateToken(ctx, manager.CreateTokenRequest{
		Authority: authority,
		Decimals:  createDecimals,
		Name:      createName,
		Symbol:    createSymbol,
	})
	if res == nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Signature:     %s\n", res.Receipt.Signature)
	fmt.Fprintf(out, "Mint:          %s\n", res.Mint.Address())
	fmt.Fprintf(out, "Token info:    %s\n", res.TokenInfo.Address())
	fmt.Fprintf(out, "Token account: %s\n", res.TokenAccount)
	fmt.Fprintf(out, "Supply:        %s %s\n",
		reporting.FormatAmount(res.Receipt.Events[0].SupplyAfter, res.Metadata.Decimals), res.Metadata.Symbol)

	if kerr := saveKeypairIfRequested(createMintOut, res.Mint); kerr != nil {
		return errors.Join(err, kerr)
	}
	if kerr := saveKeypairIfRequested(createTokenInfoOut, res.TokenInfo); kerr != nil {
		return errors.Join(err, kerr)
	}
	return err
}

func runMint(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	authority, err := loadSigner(signerPath)
	if err != nil {
		return err
	}
	mint, err := solana.ParsePublicKey(mintAddress)
	if err != nil {
		return fmt.Errorf("--mint: %w", err)
	}
	var account solana.PublicKey
	if mintAccount != "" {
		if account, err = solana.ParsePublicKey(mintAccount); err != nil {
			return fmt.Errorf("--account: %w", err)
		}
	}

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	receipt, err := m.MintTokens(ctx, manager.MintTokensRequest{
		Authority:    authority,
		Mint:         mint,
		TokenAccount: account,
		Amount:       mintAmount,
	})
	if receipt == nil {
		return err
	}

	ev := receipt.Events[0]
	fmt.Fprintf(cmd.OutOrStdout(), "Signature: %s\nMinted %d base units into %s (supply %d)\n",
		receipt.Signature, ev.Amount, ev.TokenAccount, ev.SupplyAfter)
	return err
}

func runInfo(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	var rec *domain.TokenMetadata
	if infoByMint {
		rec, err = m.TokenInfoByMint(ctx, args[0])
	} else {
		rec, err = m.TokenInfo(ctx, args[0])
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if infoRaw {
		return printRawTokenInfo(out, rec)
	}

	fmt.Fprintf(out, "Address:   %s\n", rec.Address)
	fmt.Fprintf(out, "Mint:      %s\n", rec.Mint)
	fmt.Fprintf(out, "Name:      %s\n", rec.Name)
	fmt.Fprintf(out, "Symbol:    %s\n", rec.Symbol)
	fmt.Fprintf(out, "Decimals:  %d\n", rec.Decimals)
	fmt.Fprintf(out, "Authority: %s\n", rec.Authority)

	if mint, err := m.Mint(ctx, rec.Mint); err == nil {
		fmt.Fprintf(out, "Supply:    %s\n", reporting.FormatAmount(mint.Supply, mint.Decimals))
		if mint.MintAuthority == nil || *mint.MintAuthority != rec.Authority {
			fmt.Fprintln(out, "Note: the mint authority no longer matches the recorded authority")
		}
	}
	return nil
}

func printRawTokenInfo(out io.Writer, rec *domain.TokenMetadata) error {
	info, err := program.TokenInfoFromMetadata(rec)
	if err != nil {
		return err
	}
	data, err := program.EncodeTokenInfo(info)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "hex:    %s\n", hex.EncodeToString(data))
	fmt.Fprintf(out, "base64: %s\n", base64.StdEncoding.EncodeToString(data))
	fmt.Fprintf(out, "size:   %d of %d bytes\n", len(data), domain.TokenInfoAccountSize)
	return nil
}

func runBalance(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	acc, err := m.Balance(ctx, args[0])
	if err != nil {
		return err
	}
	mint, err := m.Mint(ctx, acc.Mint)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%d base units) of %s, owner %s\n",
		reporting.FormatAmount(acc.Amount, mint.Decimals), acc.Amount, acc.Mint, acc.Owner)
	return nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	events, err := m.History(ctx, args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if len(events) == 0 {
		fmt.Fprintln(out, "No issuance events")
		return nil
	}
	for _, ev := range events {
		fmt.Fprintf(out, "%d  %-6s  +%d  supply=%d  account=%s  sig=%s\n",
			ev.TimestampMs, ev.Kind, ev.Amount, ev.SupplyAfter, ev.TokenAccount, ev.Signature)
	}
	return nil
}
