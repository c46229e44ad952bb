// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-ftp-keeper application. It aggregates all sub-configurations and is
// populated by merging values from environment variables, command-line
// flags, an optional JSON file, and built-in defaults.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env: direct environment variable name for scalar fields.
//
// All environment lookups additionally carry the application prefix
// FTPKEEPER_ (e.g. FTPKEEPER_VAULT_PATH).
type StructuredConfig struct {
	// Vault holds the encrypted profile store settings: file location,
	// master-password policy, and key-derivation costs.
	Vault Vault `envPrefix:"VAULT_"`

	// Transfers holds the transfer queue engine settings: concurrency,
	// retry policy, and session pool limits.
	Transfers Transfers `envPrefix:"TRANSFERS_"`

	// Storage holds persistence settings for the local transfer history.
	Storage Storage `envPrefix:"STORAGE_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// When non-empty, the file is parsed and merged on top of the values
	// already loaded from environment variables and flags.
	// Populated via the FTPKEEPER_CONFIG environment variable or the
	// -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// Vault groups settings of the encrypted connection-profile store.
type Vault struct {
	// Path is the location of the vault file on disk.
	// Env: FTPKEEPER_VAULT_PATH
	Path string `env:"PATH"`

	// MinPasswordLen is the minimum accepted master password length.
	// Env: FTPKEEPER_VAULT_MIN_PASSWORD_LEN
	MinPasswordLen int `env:"MIN_PASSWORD_LEN"`

	// KDF holds the Argon2id cost parameters for newly created vaults and
	// the floor below which stored parameters are rejected.
	KDF KDF `envPrefix:"KDF_"`
}

// KDF holds Argon2id work-factor settings. The Min* fields form the floor
// enforced on parameters read back from a vault file, defending against a
// downgrade of the stored costs.
type KDF struct {
	// Time is the pass count used for new vaults.
	// Env: FTPKEEPER_VAULT_KDF_TIME
	Time uint32 `env:"TIME"`

	// MemoryKiB is the memory cost in KiB used for new vaults.
	// Env: FTPKEEPER_VAULT_KDF_MEMORY_KIB
	MemoryKiB uint32 `env:"MEMORY_KIB"`

	// Threads is the parallelism degree used for new vaults.
	// Env: FTPKEEPER_VAULT_KDF_THREADS
	Threads uint8 `env:"THREADS"`

	// MinTime is the lowest accepted pass count.
	// Env: FTPKEEPER_VAULT_KDF_MIN_TIME
	MinTime uint32 `env:"MIN_TIME"`

	// MinMemoryKiB is the lowest accepted memory cost in KiB.
	// Env: FTPKEEPER_VAULT_KDF_MIN_MEMORY_KIB
	MinMemoryKiB uint32 `env:"MIN_MEMORY_KIB"`

	// MinThreads is the lowest accepted parallelism degree.
	// Env: FTPKEEPER_VAULT_KDF_MIN_THREADS
	MinThreads uint8 `env:"MIN_THREADS"`
}

// Transfers groups the transfer queue engine and session pool settings.
type Transfers struct {
	// Concurrency is the maximum number of tasks in the Running state at
	// any instant.
	// Env: FTPKEEPER_TRANSFERS_CONCURRENCY
	Concurrency int `env:"CONCURRENCY"`

	// MaxRetries is how many times a transiently failed task is re-queued
	// before it is moved to Failed permanently.
	// Env: FTPKEEPER_TRANSFERS_MAX_RETRIES
	MaxRetries int `env:"MAX_RETRIES"`

	// RetryBaseDelay is the first retry backoff delay; each further retry
	// doubles it.
	// Env: FTPKEEPER_TRANSFERS_RETRY_BASE_DELAY
	RetryBaseDelay time.Duration `env:"RETRY_BASE_DELAY"`

	// RetryMaxDelay caps the exponential retry backoff.
	// Env: FTPKEEPER_TRANSFERS_RETRY_MAX_DELAY
	RetryMaxDelay time.Duration `env:"RETRY_MAX_DELAY"`

	// SessionsPerProfile bounds how many live protocol sessions may exist
	// for one profile, so a busy queue cannot open unbounded connections
	// to a single server.
	// Env: FTPKEEPER_TRANSFERS_SESSIONS_PER_PROFILE
	SessionsPerProfile int `env:"SESSIONS_PER_PROFILE"`

	// SessionIdleTimeout is how long a pooled session may sit idle before
	// the pool closes it.
	// Env: FTPKEEPER_TRANSFERS_SESSION_IDLE_TIMEOUT
	SessionIdleTimeout time.Duration `env:"SESSION_IDLE_TIMEOUT"`

	// ConnectTimeout bounds a single protocol connect attempt.
	// Env: FTPKEEPER_TRANSFERS_CONNECT_TIMEOUT
	ConnectTimeout time.Duration `env:"CONNECT_TIMEOUT"`

	// DeletePartial removes the partial local file left behind by a
	// cancelled or failed download. Default false: partial files are kept
	// for a later resume.
	// Env: FTPKEEPER_TRANSFERS_DELETE_PARTIAL
	DeletePartial bool `env:"DELETE_PARTIAL"`
}

// Storage groups local persistence settings.
type Storage struct {
	// HistoryDSN is the SQLite DSN of the transfer history database.
	// Empty disables history recording.
	// Env: FTPKEEPER_STORAGE_HISTORY_DSN
	HistoryDSN string `env:"HISTORY_DSN"`
}

// GetConfig loads, merges, and validates the application configuration from
// all available sources in the following priority order (first non-zero
// value wins):
//  1. Environment variables
//  2. Command-line flags
//  3. JSON file (path resolved from sources 1 and 2)
//  4. Built-in defaults
//
// Returns a fully populated *StructuredConfig or an error if any source
// fails to load or the final config fails validation.
func GetConfig() (*StructuredConfig, error) {
	return newConfigBuilder().
		withEnv().
		withFlags().
		withJSON().
		withDefaults().
		build()
}

// Defaults returns the built-in configuration used when no source provides
// a value.
func Defaults() *StructuredConfig {
	return &StructuredConfig{
		Vault: Vault{
			Path:           "ftpkeeper.vault",
			MinPasswordLen: 8,
			KDF: KDF{
				Time:         1,
				MemoryKiB:    64 * 1024,
				Threads:      4,
				MinTime:      1,
				MinMemoryKiB: 19 * 1024,
				MinThreads:   1,
			},
		},
		Transfers: Transfers{
			Concurrency:        2,
			MaxRetries:         3,
			RetryBaseDelay:     500 * time.Millisecond,
			RetryMaxDelay:      30 * time.Second,
			SessionsPerProfile: 2,
			SessionIdleTimeout: 60 * time.Second,
			ConnectTimeout:     30 * time.Second,
		},
		Storage: Storage{
			HistoryDSN: "ftpkeeper-history.db",
		},
	}
}
