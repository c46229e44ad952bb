package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-vault vault file path
//	-min-password-len minimum master password length
//	-concurrency maximum simultaneous transfers
//	-max-retries retry limit for transient transfer failures
//	-retry-base-delay first retry backoff delay (e.g., "500ms")
//	-retry-max-delay retry backoff cap (e.g., "30s")
//	-sessions-per-profile session pool size per profile
//	-session-idle-timeout idle session lifetime (e.g., "60s")
//	-connect-timeout protocol connect timeout (e.g., "30s")
//	-delete-partial remove partial local files after cancel/failure
//	-history transfer history SQLite DSN
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var vaultPath string
	var minPasswordLen int
	var concurrency int
	var maxRetries int
	var retryBaseDelay time.Duration
	var retryMaxDelay time.Duration
	var sessionsPerProfile int
	var sessionIdleTimeout time.Duration
	var connectTimeout time.Duration
	var deletePartial bool
	var historyDSN string
	var jsonConfigPath string

	flag.StringVar(&vaultPath, "vault", "", "Vault file path")
	flag.IntVar(&minPasswordLen, "min-password-len", 0, "Minimum master password length")
	flag.IntVar(&concurrency, "concurrency", 0, "Maximum simultaneous transfers")
	flag.IntVar(&maxRetries, "max-retries", 0, "Retry limit for transient transfer failures")
	flag.DurationVar(&retryBaseDelay, "retry-base-delay", 0, "First retry backoff delay (e.g., 500ms)")
	flag.DurationVar(&retryMaxDelay, "retry-max-delay", 0, "Retry backoff cap (e.g., 30s)")
	flag.IntVar(&sessionsPerProfile, "sessions-per-profile", 0, "Session pool size per profile")
	flag.DurationVar(&sessionIdleTimeout, "session-idle-timeout", 0, "Idle session lifetime (e.g., 60s)")
	flag.DurationVar(&connectTimeout, "connect-timeout", 0, "Protocol connect timeout (e.g., 30s)")
	flag.BoolVar(&deletePartial, "delete-partial", false, "Remove partial local files after cancel/failure")
	flag.StringVar(&historyDSN, "history", "", "Transfer history SQLite DSN")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Vault: Vault{
			Path:           vaultPath,
			MinPasswordLen: minPasswordLen,
		},
		Transfers: Transfers{
			Concurrency:        concurrency,
			MaxRetries:         maxRetries,
			RetryBaseDelay:     retryBaseDelay,
			RetryMaxDelay:      retryMaxDelay,
			SessionsPerProfile: sessionsPerProfile,
			SessionIdleTimeout: sessionIdleTimeout,
			ConnectTimeout:     connectTimeout,
			DeletePartial:      deletePartial,
		},
		Storage: Storage{
			HistoryDSN: historyDSN,
		},
		JSONFilePath: jsonConfigPath,
	}
}
