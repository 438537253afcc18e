package app

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	f := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(f, []byte(content), 0644))
	return f
}

func TestLoadConfigDefaults(t *testing.T) {
	f := writeConfig(t, "server:\n  run-mode: debug\n")

	c, realpath, err := LoadConfig(f)
	require.NoError(t, err)
	assert.Equal(t, f, realpath)

	assert.Equal(t, "debug", c.Server.RunMode)
	assert.Equal(t, ":9000", c.Server.HttpPort)
	assert.Equal(t, ":9001", c.Server.PrivateHttpListen)
	assert.Equal(t, "info", c.Log.Level)
	assert.Equal(t, 64, c.Log.MaxSize)
	assert.Equal(t, "storage/backups", c.Backup.LocalSavePath)
	assert.Equal(t, []string{"items", "rooms", "maintenance_records", "budget_entries", "documents"}, c.Backup.Tables)
	assert.Equal(t, 2, c.AI.MaxConcurrentJobs)
	assert.Equal(t, 32, c.AI.QueueSize)
}

func TestLoadConfigOverrides(t *testing.T) {
	f := writeConfig(t, `
server:
  http-port: ":8080"
backup:
  local-save-path: /srv/backups
  encrypt-key: hunter2
  tables:
    - items
ai:
  max-concurrent-jobs: 4
`)

	c, _, err := LoadConfig(f)
	require.NoError(t, err)
	assert.Equal(t, ":8080", c.Server.HttpPort)
	assert.Equal(t, "/srv/backups", c.Backup.LocalSavePath)
	assert.Equal(t, "hunter2", c.Backup.EncryptKey)
	assert.Equal(t, []string{"items"}, c.Backup.Tables)
	assert.Equal(t, 4, c.AI.MaxConcurrentJobs)
	// untouched sections keep their defaults
	assert.Equal(t, "release", c.Server.RunMode)
}

func TestLoadConfigMissingFile(t *testing.T) {
	_, _, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestGetWorkerPoolConfig(t *testing.T) {
	c := &AppConfig{}
	pool := c.GetWorkerPoolConfig()
	assert.Greater(t, pool.MaxWorkers, 0)
	assert.Greater(t, pool.QueueSize, 0)

	c.AI.MaxConcurrentJobs = 5
	c.AI.QueueSize = 100
	pool = c.GetWorkerPoolConfig()
	assert.Equal(t, 5, pool.MaxWorkers)
	assert.Equal(t, 100, pool.QueueSize)
}
