package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	cfg := Defaults()
	cfg.Ethereum.Pools = map[string]PoolConfig{
		"uniswap":   {Address: "0x0000000000000000000000000000000000000001", Token0Decimals: 6, Token1Decimals: 18},
		"sushiswap": {Address: "0x0000000000000000000000000000000000000002", Token0Decimals: 6, Token1Decimals: 18},
	}
	return cfg
}

func TestDefaultsValidateWithPools(t *testing.T) {
	cfg := validConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsTooFewPools(t *testing.T) {
	cfg := Defaults()
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 pools")
}

func TestValidateCollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Mode = "bogus"
	cfg.LogLevel = "loud"
	cfg.Scanner.Interval = duration{0}
	cfg.Executor.Enabled = true // no key, router, tokens

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown mode")
	assert.Contains(t, err.Error(), "unknown log_level")
	assert.Contains(t, err.Error(), "interval must be > 0")
	assert.Contains(t, err.Error(), "private_key is required")
}

func TestValidateTelegramPairing(t *testing.T) {
	cfg := validConfig()
	cfg.Notify.TelegramToken = "tok"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "telegram_token and telegram_chat_id")

	cfg.Notify.TelegramChatID = "chat"
	require.NoError(t, cfg.Validate())
}

func TestLoadAppliesFileAndEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	data := `
mode = "once"
log_level = "debug"

[scanner]
interval = "10s"
min_profit = 0.5

[ethereum]
rpc_url = "http://rpc.example:8545"

[ethereum.pools.uniswap]
address = "0x0000000000000000000000000000000000000001"
token0_decimals = 6
token1_decimals = 18

[ethereum.pools.sushiswap]
address = "0x0000000000000000000000000000000000000002"
token0_decimals = 6
token1_decimals = 18
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	t.Setenv("ARBOT_SCANNER_MIN_PROFIT", "1.25")
	t.Setenv("ARBOT_MODE", "monitor")

	cfg, err := Load(path)
	require.NoError(t, err)

	// file values
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, 10*time.Second, cfg.Scanner.Interval.Duration)
	assert.Equal(t, "http://rpc.example:8545", cfg.Ethereum.RPCURL)
	assert.Len(t, cfg.Ethereum.Pools, 2)

	// env overrides file
	assert.Equal(t, 1.25, cfg.Scanner.MinProfit)
	assert.Equal(t, "monitor", cfg.Mode)

	require.NoError(t, cfg.Validate())
}

func TestRedactedConfig(t *testing.T) {
	cfg := validConfig()
	cfg.Executor.PrivateKey = "deadbeef"
	cfg.Redis.Password = "hunter2"

	red := RedactedConfig(&cfg)
	assert.Equal(t, "***", red.Executor.PrivateKey)
	assert.Equal(t, "***", red.Redis.Password)
	// the original is untouched
	assert.Equal(t, "deadbeef", cfg.Executor.PrivateKey)
}
