package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8765", cfg.Server.Address)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 24, cfg.Game.CountdownSeconds)
	assert.Equal(t, 1500*time.Millisecond, cfg.Game.BotDelay)
	assert.Equal(t, 6*time.Hour, cfg.Game.CleanupInterval)
	assert.Equal(t, 24*time.Hour, cfg.Game.RoomTTL)
}

func TestLoadMissingFileFallsBack(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, ":8765", cfg.Server.Address)
}

func TestLoadFileOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
server:
  address: ":9000"
database:
  host: db.internal
  password: hunter2
logging:
  level: debug
  format: console
game:
  countdown_seconds: 5
  bot_delay: 50ms
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9000", cfg.Server.Address)
	assert.Equal(t, "db.internal", cfg.Database.Host)
	assert.Equal(t, "hunter2", cfg.Database.Password)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Game.CountdownSeconds)
	assert.Equal(t, 50*time.Millisecond, cfg.Game.BotDelay)
	assert.Equal(t, 5432, cfg.Database.Port, "unset keys keep their defaults")
}
