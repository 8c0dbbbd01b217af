package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"solana-token-manager/internal/solana"
)

var (
	keygenOutfile string
	keygenForce   bool
)

// keygenCmd writes a new signer keypair
var keygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generate a keypair file",
	Long: `Generates an ed25519 keypair and writes it in the solana-keygen JSON format
(a 64-byte array). Use it as the authority for create-token and mint.`,
	RunE: runKeygen,
}

func init() {
	keygenCmd.Flags().StringVarP(&keygenOutfile, "outfile", "o", "", "Output path (default: configured keypair)")
	keygenCmd.Flags().BoolVar(&keygenForce, "force", false, "Overwrite an existing file")
}

func runKeygen(cmd *cobra.Command, args []string) error {
	path := keygenOutfile
	if path == "" {
		path = cfg.Keypair
	}
	if !keygenForce {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}

	k, err := solana.NewKeypair()
	if err != nil {
		return err
	}
	if err := solana.SaveKeypairFile(path, k); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Wrote keypair to %s\npubkey: %s\n", path, k.Address())
	return nil
}

// saveKeypairIfRequested writes k to path when path is set.
func saveKeypairIfRequested(path string, k *solana.Keypair) error {
	if path == "" {
		return nil
	}
	return solana.SaveKeypairFile(path, k)
}
