package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidVaultConfigs indicates invalid vault settings (for example,
	// an empty path or a zero minimum password length).
	ErrInvalidVaultConfigs = errors.New("invalid vault configuration")
	// ErrInvalidKDFConfigs indicates Argon2id settings below their own
	// configured floor, or a zero floor.
	ErrInvalidKDFConfigs = errors.New("invalid key derivation configuration")
	// ErrInvalidTransferConfigs indicates invalid transfer queue settings
	// (for example, a non-positive concurrency or session pool size).
	ErrInvalidTransferConfigs = errors.New("invalid transfer configuration")
)
