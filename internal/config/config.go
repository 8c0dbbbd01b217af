// Package config loads tokenctl configuration from YAML, environment and .env files.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"solana-token-manager/internal/program"
	"solana-token-manager/internal/solana"
)

// Storage backends.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
)

// Config holds all tokenctl configuration.
type Config struct {
	// ProgramID is the address the gateway is deployed at.
	ProgramID string `yaml:"program_id"`

	// InitialSupply is the whole-token amount minted by create_token.
	InitialSupply uint64 `yaml:"initial_supply"`

	// Keypair is the default signer keypair file.
	Keypair string `yaml:"keypair"`

	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Reports ReportsConfig `yaml:"reports"`
}

// StorageConfig selects where accounts and issuance history live.
type StorageConfig struct {
	Backend     string `yaml:"backend"` // memory, postgres
	PostgresDSN string `yaml:"postgres_dsn"`

	// ClickHouseDSN enables ClickHouse issuance history. Empty keeps history
	// in memory.
	ClickHouseDSN string `yaml:"clickhouse_dsn"`
}

// LoggingConfig configures zap.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// MetricsConfig configures metric export.
type MetricsConfig struct {
	Namespace string `yaml:"namespace"`
	// Textfile is written after each command when set.
	Textfile string `yaml:"textfile"`
}

// ReportsConfig configures registry reports.
type ReportsConfig struct {
	OutputDir string `yaml:"output_dir"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		ProgramID:     solana.DefaultTokenManagerProgramID,
		InitialSupply: program.DefaultInitialSupply,
		Keypair:       defaultKeypairPath(),
		Storage: StorageConfig{
			Backend: BackendMemory,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Namespace: "token_manager",
		},
		Reports: ReportsConfig{
			OutputDir: "output",
		},
	}
}

func defaultKeypairPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "id.json"
	}
	return filepath.Join(home, ".config", "solana", "id.json")
}

// Load loads configuration from a YAML file and applies environment overrides.
// A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
		default:
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("TOKENCTL_PROGRAM_ID"); v != "" {
		c.ProgramID = v
	}
	if v := os.Getenv("TOKENCTL_KEYPAIR"); v != "" {
		c.Keypair = v
	}
	if v := os.Getenv("TOKENCTL_STORAGE"); v != "" {
		c.Storage.Backend = v
	}
	if v := os.Getenv("POSTGRES_DSN"); v != "" {
		c.Storage.PostgresDSN = v
		// A DSN without an explicit backend means postgres.
		if os.Getenv("TOKENCTL_STORAGE") == "" {
			c.Storage.Backend = BackendPostgres
		}
	}
	if v := os.Getenv("CLICKHOUSE_DSN"); v != "" {
		c.Storage.ClickHouseDSN = v
	}
	if v := os.Getenv("TOKENCTL_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("TOKENCTL_METRICS_TEXTFILE"); v != "" {
		c.Metrics.Textfile = v
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := solana.ParsePublicKey(c.ProgramID); err != nil {
		return fmt.Errorf("program_id: %w", err)
	}
	if c.InitialSupply == 0 {
		return fmt.Errorf("initial_supply must be positive")
	}

	switch c.Storage.Backend {
	case BackendMemory:
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("storage.postgres_dsn is required for the postgres backend (or set POSTGRES_DSN)")
		}
	default:
		return fmt.Errorf("invalid storage backend: %q (valid: %s, %s)", c.Storage.Backend, BackendMemory, BackendPostgres)
	}

	if _, err := zapcore.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	if c.Logging.Format != "json" && c.Logging.Format != "console" {
		return fmt.Errorf("invalid logging format: %q (valid: json, console)", c.Logging.Format)
	}
	return nil
}

// ProgramOptions returns gateway options derived from the configuration.
func (c *Config) ProgramOptions() *program.Options {
	return &program.Options{InitialSupply: c.InitialSupply}
}

// NewLogger builds a zap logger. verbose forces debug level.
func (c LoggingConfig) NewLogger(verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if c.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	return zc.Build()
}
