package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJSON_Success(t *testing.T) {
	// Arrange
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	// Durations in JSON may be strings ("30s") or nanosecond numbers.
	jsonBody := `{
		"vault": {
			"path": "/home/alice/.ftpkeeper/vault",
			"min_password_len": 10,
			"kdf": {
				"time": 2,
				"memory_kib": 131072,
				"threads": 4,
				"min_time": 1,
				"min_memory_kib": 19456,
				"min_threads": 1
			}
		},
		"transfers": {
			"concurrency": 3,
			"max_retries": 4,
			"retry_base_delay": "500ms",
			"retry_max_delay": "30s",
			"sessions_per_profile": 2,
			"session_idle_timeout": "1m",
			"connect_timeout": "15s",
			"delete_partial": true
		},
		"storage": {
			"history_dsn": "/var/lib/ftpkeeper/history.db"
		}
	}`

	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	// Act
	cfg, err := parseJSON(p)

	// Assert
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, "/home/alice/.ftpkeeper/vault", cfg.Vault.Path)
	assert.Equal(t, 10, cfg.Vault.MinPasswordLen)
	assert.Equal(t, uint32(2), cfg.Vault.KDF.Time)
	assert.Equal(t, uint32(131072), cfg.Vault.KDF.MemoryKiB)
	assert.Equal(t, uint8(4), cfg.Vault.KDF.Threads)

	assert.Equal(t, 3, cfg.Transfers.Concurrency)
	assert.Equal(t, 4, cfg.Transfers.MaxRetries)
	assert.Equal(t, 500*time.Millisecond, cfg.Transfers.RetryBaseDelay)
	assert.Equal(t, 30*time.Second, cfg.Transfers.RetryMaxDelay)
	assert.Equal(t, 2, cfg.Transfers.SessionsPerProfile)
	assert.Equal(t, time.Minute, cfg.Transfers.SessionIdleTimeout)
	assert.Equal(t, 15*time.Second, cfg.Transfers.ConnectTimeout)
	assert.True(t, cfg.Transfers.DeletePartial)

	assert.Equal(t, "/var/lib/ftpkeeper/history.db", cfg.Storage.HistoryDSN)
}

func TestParseJSON_NumericDuration(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")

	jsonBody := `{"transfers": {"retry_base_delay": 500000000}}`
	require.NoError(t, os.WriteFile(p, []byte(jsonBody), 0o600))

	cfg, err := parseJSON(p)

	require.NoError(t, err)
	assert.Equal(t, 500*time.Millisecond, cfg.Transfers.RetryBaseDelay)
}

func TestParseJSON_FileMissing(t *testing.T) {
	_, err := parseJSON(filepath.Join(t.TempDir(), "does-not-exist.json"))
	require.Error(t, err)
}

func TestParseJSON_MalformedBody(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "config.json")
	require.NoError(t, os.WriteFile(p, []byte(`{"vault": `), 0o600))

	_, err := parseJSON(p)
	require.Error(t, err)
}
