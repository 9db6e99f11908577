// Package config defines the top-level configuration for the arbitrage bot
// and provides validation helpers.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root configuration structure. Fields are populated from a
// TOML file and then optionally overridden by ARBOT_* environment variables.
type Config struct {
	Ethereum ExchangeConfig `toml:"ethereum"`
	Scanner  ScannerConfig  `toml:"scanner"`
	Executor ExecutorConfig `toml:"executor"`
	Risk     RiskConfig     `toml:"risk"`
	Redis    RedisConfig    `toml:"redis"`
	Postgres PostgresConfig `toml:"postgres"`
	Metrics  MetricsConfig  `toml:"metrics"`
	Notify   NotifyConfig   `toml:"notify"`
	Mode     string         `toml:"mode"`
	LogLevel string         `toml:"log_level"`
}

// ExchangeConfig holds the chain endpoint and the pools to watch. The map
// key is the venue name used throughout the bot (e.g. "uniswap").
type ExchangeConfig struct {
	RPCURL  string                `toml:"rpc_url"`
	ChainID int64                 `toml:"chain_id"`
	Pools   map[string]PoolConfig `toml:"pools"`
}

// PoolConfig describes one venue's pair contract.
type PoolConfig struct {
	Address        string `toml:"address"`
	Token0Decimals int    `toml:"token0_decimals"`
	Token1Decimals int    `toml:"token1_decimals"`
}

// ScannerConfig holds the detection loop parameters.
type ScannerConfig struct {
	Interval  duration `toml:"interval"`
	MinProfit float64  `toml:"min_profit"`
}

// ExecutorConfig holds on-chain execution parameters. When Enabled is false
// the bot runs dry: opportunities are logged and recorded but never traded.
type ExecutorConfig struct {
	Enabled       bool   `toml:"enabled"`
	RouterAddress string `toml:"router_address"`
	PrivateKey    string `toml:"private_key"`
	TokenIn       string `toml:"token_in"`
	TokenOut      string `toml:"token_out"`
	AmountIn      string `toml:"amount_in"` // wei, decimal string
	GasLimit      uint64 `toml:"gas_limit"`
}

// RiskConfig holds execution risk bounds.
type RiskConfig struct {
	MaxPositionSize   float64 `toml:"max_position_size"`
	StopLossThreshold float64 `toml:"stop_loss_threshold"`
}

// RedisConfig holds Redis connection parameters. Redis is optional; with
// Enabled false the bot skips the price mirror and opportunity bus.
type RedisConfig struct {
	Enabled    bool   `toml:"enabled"`
	Addr       string `toml:"addr"`
	Password   string `toml:"password"`
	DB         int    `toml:"db"`
	PoolSize   int    `toml:"pool_size"`
	MaxRetries int    `toml:"max_retries"`
	TLSEnabled bool   `toml:"tls_enabled"`
}

// PostgresConfig holds PostgreSQL connection parameters. Postgres is
// optional; with Enabled false opportunities are not persisted.
type PostgresConfig struct {
	Enabled       bool   `toml:"enabled"`
	DSN           string `toml:"dsn"`
	Host          string `toml:"host"`
	Port          int    `toml:"port"`
	Database      string `toml:"database"`
	User          string `toml:"user"`
	Password      string `toml:"password"`
	SSLMode       string `toml:"ssl_mode"`
	PoolMaxConns  int    `toml:"pool_max_conns"`
	PoolMinConns  int    `toml:"pool_min_conns"`
	RunMigrations bool   `toml:"run_migrations"`
}

// MetricsConfig holds the Prometheus endpoint parameters.
type MetricsConfig struct {
	Enabled bool   `toml:"enabled"`
	Addr    string `toml:"addr"`
}

// NotifyConfig holds notification channel credentials.
type NotifyConfig struct {
	TelegramToken  string   `toml:"telegram_token"`
	TelegramChatID string   `toml:"telegram_chat_id"`
	Events         []string `toml:"events"`
}

// duration is a wrapper around time.Duration that supports TOML string
// decoding (e.g. "5s", "1m").
type duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler so the TOML decoder can
// parse duration strings like "5s" or "1m".
func (d *duration) UnmarshalText(text []byte) error {
	var err error
	d.Duration, err = time.ParseDuration(string(text))
	return err
}

// MarshalText implements encoding.TextMarshaler for round-trip encoding.
func (d duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// Defaults returns a Config populated with reasonable default values.
// These match the values in config.example.toml.
func Defaults() Config {
	return Config{
		Ethereum: ExchangeConfig{
			RPCURL:  "http://localhost:8545",
			ChainID: 1,
			Pools:   map[string]PoolConfig{},
		},
		Scanner: ScannerConfig{
			Interval:  duration{5 * time.Second},
			MinProfit: 0.01,
		},
		Executor: ExecutorConfig{
			Enabled:  false,
			AmountIn: "1000000000000000000", // 1 token at 18 decimals
			GasLimit: 300_000,
		},
		Risk: RiskConfig{
			MaxPositionSize:   10.0,
			StopLossThreshold: 0.05,
		},
		Redis: RedisConfig{
			Enabled:    false,
			Addr:       "localhost:6379",
			DB:         0,
			PoolSize:   20,
			MaxRetries: 3,
		},
		Postgres: PostgresConfig{
			Enabled:       false,
			Host:          "localhost",
			Port:          5432,
			Database:      "arbot",
			User:          "postgres",
			SSLMode:       "disable",
			PoolMaxConns:  10,
			PoolMinConns:  2,
			RunMigrations: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Addr:    ":9090",
		},
		Notify: NotifyConfig{
			Events: []string{"opportunity", "execution", "error"},
		},
		Mode:     "monitor",
		LogLevel: "info",
	}
}

// validModes enumerates the accepted values for Config.Mode.
var validModes = map[string]bool{
	"monitor": true,
	"once":    true,
}

// validLogLevels enumerates the accepted values for Config.LogLevel.
var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks Config for obviously invalid or missing values and returns
// a combined error describing every problem found.
func (c *Config) Validate() error {
	var errs []string

	if !validModes[strings.ToLower(c.Mode)] {
		errs = append(errs, fmt.Sprintf("unknown mode %q (valid: monitor, once)", c.Mode))
	}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		errs = append(errs, fmt.Sprintf("unknown log_level %q (valid: debug, info, warn, error)", c.LogLevel))
	}

	// Ethereum
	if c.Ethereum.RPCURL == "" {
		errs = append(errs, "ethereum: rpc_url must not be empty")
	}
	if c.Ethereum.ChainID <= 0 {
		errs = append(errs, fmt.Sprintf("ethereum: chain_id must be positive, got %d", c.Ethereum.ChainID))
	}
	if len(c.Ethereum.Pools) < 2 {
		errs = append(errs, fmt.Sprintf("ethereum: at least 2 pools are required to arbitrage, got %d", len(c.Ethereum.Pools)))
	}
	for venue, pool := range c.Ethereum.Pools {
		if pool.Address == "" {
			errs = append(errs, fmt.Sprintf("ethereum: pool %q has no address", venue))
		}
		if pool.Token0Decimals < 0 || pool.Token1Decimals < 0 {
			errs = append(errs, fmt.Sprintf("ethereum: pool %q has negative token decimals", venue))
		}
	}

	// Scanner
	if c.Scanner.Interval.Duration <= 0 {
		errs = append(errs, "scanner: interval must be > 0")
	}
	if c.Scanner.MinProfit < 0 {
		errs = append(errs, "scanner: min_profit must be >= 0")
	}

	// Executor
	if c.Executor.Enabled {
		if c.Executor.PrivateKey == "" {
			errs = append(errs, "executor: private_key is required when enabled")
		}
		if c.Executor.RouterAddress == "" {
			errs = append(errs, "executor: router_address is required when enabled")
		}
		if c.Executor.TokenIn == "" || c.Executor.TokenOut == "" {
			errs = append(errs, "executor: token_in and token_out are required when enabled")
		}
		if c.Executor.AmountIn == "" {
			errs = append(errs, "executor: amount_in is required when enabled")
		}
		if c.Executor.GasLimit == 0 {
			errs = append(errs, "executor: gas_limit must be > 0 when enabled")
		}
	}

	// Risk
	if c.Risk.MaxPositionSize < 0 {
		errs = append(errs, "risk: max_position_size must be >= 0")
	}
	if c.Risk.StopLossThreshold < 0 {
		errs = append(errs, "risk: stop_loss_threshold must be >= 0")
	}

	// Redis
	if c.Redis.Enabled {
		if c.Redis.Addr == "" {
			errs = append(errs, "redis: addr must not be empty when enabled")
		}
		if c.Redis.PoolSize < 1 {
			errs = append(errs, "redis: pool_size must be >= 1")
		}
	}

	// Postgres
	if c.Postgres.Enabled {
		if strings.TrimSpace(c.Postgres.DSN) == "" {
			if c.Postgres.Host == "" {
				errs = append(errs, "postgres: host must not be empty (or set postgres.dsn)")
			}
			if c.Postgres.Port <= 0 || c.Postgres.Port > 65535 {
				errs = append(errs, fmt.Sprintf("postgres: port must be 1-65535, got %d", c.Postgres.Port))
			}
			if c.Postgres.Database == "" {
				errs = append(errs, "postgres: database must not be empty")
			}
		}
		if c.Postgres.PoolMaxConns < 1 {
			errs = append(errs, "postgres: pool_max_conns must be >= 1")
		}
		if c.Postgres.PoolMinConns < 0 || c.Postgres.PoolMinConns > c.Postgres.PoolMaxConns {
			errs = append(errs, "postgres: pool_min_conns must be 0..pool_max_conns")
		}
	}

	// Metrics
	if c.Metrics.Enabled && c.Metrics.Addr == "" {
		errs = append(errs, "metrics: addr must not be empty when enabled")
	}

	// Notify — token and chat ID go together.
	nt := c.Notify.TelegramToken != ""
	nc := c.Notify.TelegramChatID != ""
	if nt != nc {
		errs = append(errs, "notify: telegram_token and telegram_chat_id must be set together")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}
