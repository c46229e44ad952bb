// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

// validate checks that the final merged [StructuredConfig] satisfies all
// application invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Vault.Path == "" || cfg.Vault.MinPasswordLen < 1 {
		return ErrInvalidVaultConfigs
	}

	kdf := cfg.Vault.KDF
	if kdf.MinTime == 0 || kdf.MinMemoryKiB == 0 || kdf.MinThreads == 0 {
		return ErrInvalidKDFConfigs
	}
	if kdf.Time < kdf.MinTime || kdf.MemoryKiB < kdf.MinMemoryKiB || kdf.Threads < kdf.MinThreads {
		return ErrInvalidKDFConfigs
	}

	tr := cfg.Transfers
	if tr.Concurrency < 1 || tr.SessionsPerProfile < 1 {
		return ErrInvalidTransferConfigs
	}
	if tr.MaxRetries < 0 || tr.RetryBaseDelay <= 0 || tr.RetryMaxDelay < tr.RetryBaseDelay {
		return ErrInvalidTransferConfigs
	}
	if tr.SessionIdleTimeout <= 0 || tr.ConnectTimeout <= 0 {
		return ErrInvalidTransferConfigs
	}

	return nil
}
