// Command tokenctl creates tokens and mints supply through the token manager gateway.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solana-token-manager/internal/config"
	"solana-token-manager/internal/observability"
)

var (
	// Global flags
	configPath string
	envFile    string
	verbose    bool

	cfg     *config.Config
	logger  *zap.Logger
	metrics *observability.Metrics
)

var rootCmd = &cobra.Command{
	Use:   "tokenctl",
	Short: "Create tokens and mint supply through the token manager",
	Long: `tokenctl drives the token manager gateway: it creates tokens with a
metadata record and an initial supply, mints further supply, and reports on the
token registry.

Accounts live in PostgreSQL (storage.backend=postgres) or in process memory.
Issuance history goes to ClickHouse when CLICKHOUSE_DSN is set.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if envFile != "" {
			if err := config.LoadEnvFile(envFile); err != nil {
				return err
			}
		}

		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}

		logger, err = cfg.Logging.NewLogger(verbose)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		metrics = observability.NewMetrics(cfg.Metrics.Namespace)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if logger != nil {
			_ = logger.Sync()
		}
		if cfg != nil && cfg.Metrics.Textfile != "" && metrics != nil {
			if err := metrics.WriteTextfile(cfg.Metrics.Textfile); err != nil {
				return fmt.Errorf("write metrics textfile: %w", err)
			}
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "tokenctl.yaml", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Load environment variables from a .env file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		keygenCmd,
		createTokenCmd,
		mintCmd,
		infoCmd,
		balanceCmd,
		historyCmd,
		reportCmd,
		migrateCmd,
		demoCmd,
	)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		stop()
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
