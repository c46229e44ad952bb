// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnv_AllFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"FTPKEEPER_CONFIG": "/path/to/config.json",

		"FTPKEEPER_VAULT_PATH":             "/home/alice/.ftpkeeper/vault",
		"FTPKEEPER_VAULT_MIN_PASSWORD_LEN": "12",

		// KDF has nested prefixes: VAULT_ + KDF_
		"FTPKEEPER_VAULT_KDF_TIME":           "2",
		"FTPKEEPER_VAULT_KDF_MEMORY_KIB":     "131072",
		"FTPKEEPER_VAULT_KDF_THREADS":        "8",
		"FTPKEEPER_VAULT_KDF_MIN_TIME":       "1",
		"FTPKEEPER_VAULT_KDF_MIN_MEMORY_KIB": "19456",
		"FTPKEEPER_VAULT_KDF_MIN_THREADS":    "1",

		"FTPKEEPER_TRANSFERS_CONCURRENCY":          "4",
		"FTPKEEPER_TRANSFERS_MAX_RETRIES":          "5",
		"FTPKEEPER_TRANSFERS_RETRY_BASE_DELAY":     "250ms",
		"FTPKEEPER_TRANSFERS_RETRY_MAX_DELAY":      "1m",
		"FTPKEEPER_TRANSFERS_SESSIONS_PER_PROFILE": "3",
		"FTPKEEPER_TRANSFERS_SESSION_IDLE_TIMEOUT": "90s",
		"FTPKEEPER_TRANSFERS_CONNECT_TIMEOUT":      "20s",
		"FTPKEEPER_TRANSFERS_DELETE_PARTIAL":       "true",

		"FTPKEEPER_STORAGE_HISTORY_DSN": "/home/alice/.ftpkeeper/history.db",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)

	assert.Equal(t, "/path/to/config.json", cfg.JSONFilePath)

	assert.Equal(t, "/home/alice/.ftpkeeper/vault", cfg.Vault.Path)
	assert.Equal(t, 12, cfg.Vault.MinPasswordLen)
	assert.Equal(t, uint32(2), cfg.Vault.KDF.Time)
	assert.Equal(t, uint32(131072), cfg.Vault.KDF.MemoryKiB)
	assert.Equal(t, uint8(8), cfg.Vault.KDF.Threads)
	assert.Equal(t, uint32(1), cfg.Vault.KDF.MinTime)
	assert.Equal(t, uint32(19456), cfg.Vault.KDF.MinMemoryKiB)
	assert.Equal(t, uint8(1), cfg.Vault.KDF.MinThreads)

	assert.Equal(t, 4, cfg.Transfers.Concurrency)
	assert.Equal(t, 5, cfg.Transfers.MaxRetries)
	assert.Equal(t, 250*time.Millisecond, cfg.Transfers.RetryBaseDelay)
	assert.Equal(t, time.Minute, cfg.Transfers.RetryMaxDelay)
	assert.Equal(t, 3, cfg.Transfers.SessionsPerProfile)
	assert.Equal(t, 90*time.Second, cfg.Transfers.SessionIdleTimeout)
	assert.Equal(t, 20*time.Second, cfg.Transfers.ConnectTimeout)
	assert.True(t, cfg.Transfers.DeletePartial)

	assert.Equal(t, "/home/alice/.ftpkeeper/history.db", cfg.Storage.HistoryDSN)
}

func TestParseEnv_PartialFields(t *testing.T) {
	// Arrange
	envVars := map[string]string{
		"FTPKEEPER_VAULT_PATH":            "vault.bin",
		"FTPKEEPER_TRANSFERS_CONCURRENCY": "2",
	}
	setEnvVars(t, envVars)

	// Act
	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "vault.bin", cfg.Vault.Path)
	assert.Equal(t, 2, cfg.Transfers.Concurrency)
	assert.Zero(t, cfg.Transfers.MaxRetries)
	assert.Empty(t, cfg.Storage.HistoryDSN)
}

func TestParseEnv_InvalidDuration(t *testing.T) {
	setEnvVars(t, map[string]string{
		"FTPKEEPER_TRANSFERS_RETRY_BASE_DELAY": "not-a-duration",
	})

	cfg := &StructuredConfig{}
	err := parseEnv(cfg)

	require.Error(t, err)
}

func setEnvVars(t *testing.T, vars map[string]string) {
	t.Helper()
	clearEnvVars(t)
	for k, v := range vars {
		require.NoError(t, os.Setenv(k, v))
		t.Cleanup(func() { _ = os.Unsetenv(k) })
	}
}

func clearEnvVars(t *testing.T) {
	t.Helper()
	keys := []string{
		"FTPKEEPER_CONFIG",
		"FTPKEEPER_VAULT_PATH",
		"FTPKEEPER_VAULT_MIN_PASSWORD_LEN",
		"FTPKEEPER_VAULT_KDF_TIME",
		"FTPKEEPER_VAULT_KDF_MEMORY_KIB",
		"FTPKEEPER_VAULT_KDF_THREADS",
		"FTPKEEPER_VAULT_KDF_MIN_TIME",
		"FTPKEEPER_VAULT_KDF_MIN_MEMORY_KIB",
		"FTPKEEPER_VAULT_KDF_MIN_THREADS",
		"FTPKEEPER_TRANSFERS_CONCURRENCY",
		"FTPKEEPER_TRANSFERS_MAX_RETRIES",
		"FTPKEEPER_TRANSFERS_RETRY_BASE_DELAY",
		"FTPKEEPER_TRANSFERS_RETRY_MAX_DELAY",
		"FTPKEEPER_TRANSFERS_SESSIONS_PER_PROFILE",
		"FTPKEEPER_TRANSFERS_SESSION_IDLE_TIMEOUT",
		"FTPKEEPER_TRANSFERS_CONNECT_TIMEOUT",
		"FTPKEEPER_TRANSFERS_DELETE_PARTIAL",
		"FTPKEEPER_STORAGE_HISTORY_DSN",
	}
	for _, k := range keys {
		require.NoError(t, os.Unsetenv(k))
	}
}
