package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSyncEngineConfig_Defaults(t *testing.T) {
	t.Setenv("CHAINWATCH_MAP_API_URL", "https://maps.example.com")
	t.Setenv("CHAINWATCH_MAP_WEBSOCKET_URL", "wss://maps.example.com/hub")

	cfg, err := LoadSyncEngineConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, 30*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 5*time.Second, cfg.Sync.StreamReconnectDelay)
	assert.Equal(t, 60*time.Second, cfg.Sync.MaxReconnectDelay)
	assert.Equal(t, 8, cfg.Sync.Worker.PoolSize)
	assert.Equal(t, 256, cfg.Sync.Worker.QueueSize)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, "CHAIN_EVENTS", cfg.NATS.StreamName)
	assert.Equal(t, 8080, cfg.Server.Port)
}

func TestLoadSyncEngineConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CHAINWATCH_MAP_API_URL", "https://maps.example.com")
	t.Setenv("CHAINWATCH_MAP_WEBSOCKET_URL", "wss://maps.example.com/hub")
	t.Setenv("CHAINWATCH_MAP_API_TOKEN", "secret")
	t.Setenv("CHAINWATCH_SYNC_INTERVAL", "10s")
	t.Setenv("CHAINWATCH_SYNC_STREAM_RECONNECT_DELAY", "2s")
	t.Setenv("CHAINWATCH_DATABASE_HOST", "db.internal")
	t.Setenv("CHAINWATCH_NATS_URL", "nats://broker:4222")

	cfg, err := LoadSyncEngineConfig("", t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "secret", cfg.Map.APIToken)
	assert.Equal(t, 10*time.Second, cfg.Sync.Interval)
	assert.Equal(t, 2*time.Second, cfg.Sync.StreamReconnectDelay)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "nats://broker:4222", cfg.NATS.URL)
}

func TestLoadSyncEngineConfig_RequiresMapEndpoints(t *testing.T) {
	t.Setenv("CHAINWATCH_MAP_API_URL", "")
	t.Setenv("CHAINWATCH_MAP_WEBSOCKET_URL", "")

	_, err := LoadSyncEngineConfig("", t.TempDir())
	assert.Error(t, err)
}

func TestDatabaseConfigDSN(t *testing.T) {
	cfg := DatabaseConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "chainwatch",
		Password: "secret",
		DBName:   "chains",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=chainwatch password=secret dbname=chains sslmode=disable",
		cfg.DSN())
}
