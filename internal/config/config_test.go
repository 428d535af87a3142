package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tunemint/market-ledger/internal/config"
)

func TestLoadAPIConfigDefaults(t *testing.T) {
	// Point at an empty directory so no config file or .env is picked up
	dir := t.TempDir()

	cfg, err := config.LoadAPIConfig("", dir)
	require.NoError(t, err)

	assert.False(t, cfg.Debug)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, 10, cfg.Server.ReadTimeout)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "MARKET_OUTCOMES", cfg.NATS.StreamName)
	assert.Equal(t, "market", cfg.NATS.SubjectPrefix)
	assert.Equal(t, 2*time.Second, cfg.NATS.ReconnectWait)
	assert.Equal(t, 8, cfg.Outcome.PoolSize)
	assert.Equal(t, 1024, cfg.Outcome.QueueSize)
	assert.Equal(t, "market:settlement", cfg.Market.OperatorIdentity)
}

func TestLoadAPIConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.yaml")
	content := `
debug: true
server:
  port: 9090
database:
  host: db.internal
  user: ledger
  dbname: market
nats:
  url: nats://broker:4222
market:
  operator_identity: "custom:operator"
`
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0o600))

	cfg, err := config.LoadAPIConfig(configPath, dir)
	require.NoError(t, err)

	assert.True(t, cfg.Debug)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
	assert.Equal(t, "custom:operator", cfg.Market.OperatorIdentity)

	// Defaults still fill unset keys
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
}

func TestLoadAPIConfigEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("MARKET_LEDGER_SERVER_PORT", "7070")
	t.Setenv("MARKET_LEDGER_DATABASE_HOST", "env-db")
	t.Setenv("MARKET_LEDGER_MARKET_OPERATOR_IDENTITY", "env:operator")

	cfg, err := config.LoadAPIConfig("", dir)
	require.NoError(t, err)

	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "env-db", cfg.Database.Host)
	assert.Equal(t, "env:operator", cfg.Market.OperatorIdentity)
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := config.DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "ledger",
		Password: "secret",
		DBName:   "market",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=ledger password=secret dbname=market sslmode=disable",
		cfg.DSN(),
	)
}
