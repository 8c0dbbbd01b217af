package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"solana-token-manager/internal/manager"
	"solana-token-manager/internal/reporting"
)

var reportOutputDir string

// reportCmd writes the token registry report
var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Write the token registry report (markdown + CSV)",
	Long: `Writes TOKEN_REGISTRY.md and TOKEN_REGISTRY.csv listing every created token,
its current supply and whether the recorded authority still controls the mint.`,
	RunE: runReport,
}

func init() {
	reportCmd.Flags().StringVar(&reportOutputDir, "output-dir", "", "Output directory (default: reports.output_dir)")
}

func runReport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	m, b, err := newManager(ctx)
	if err != nil {
		return err
	}
	defer b.Close()

	dir := reportOutputDir
	if dir == "" {
		dir = cfg.Reports.OutputDir
	}
	paths, err := writeRegistry(ctx, m, dir)
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), "Token registry generated:")
	for _, p := range paths {
		fmt.Fprintf(cmd.OutOrStdout(), "  - %s\n", p)
	}
	return nil
}

// writeRegistry renders the registry report into dir and returns the written paths.
func writeRegistry(ctx context.Context, m *manager.Manager, dir string) ([]string, error) {
	report, err := m.Registry(ctx)
	if err != nil {
		return nil, fmt.Errorf("generate registry: %w", err)
	}

	csvData, err := reporting.RenderCSV(report.Tokens)
	if err != nil {
		return nil, fmt.Errorf("render csv: %w", err)
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	files := []struct {
		name string
		data string
	}{
		{"TOKEN_REGISTRY.md", reporting.RenderMarkdown(report)},
		{"TOKEN_REGISTRY.csv", csvData},
	}

	paths := make([]string, 0, len(files))
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := os.WriteFile(path, []byte(f.data), 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		paths = append(paths, path)
	}

	logger.Info("Registry report written",
		zap.String("dir", dir),
		zap.Int("tokens", report.Summary.TotalTokens),
		zap.Int("stale_authority", report.Summary.StaleAuthority),
	)
	return paths, nil
}
