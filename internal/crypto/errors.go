package crypto

import "errors"

var (
	// ErrAuthentication is returned by Decrypt for any wrong key or any
	// corruption of the sealed data. It is deliberately generic: callers
	// must not be able to distinguish why authentication failed.
	ErrAuthentication = errors.New("authentication failed")

	// ErrWeakParameters is returned by DeriveKey when the supplied cost
	// parameters fall below the configured minimum.
	ErrWeakParameters = errors.New("key derivation parameters below configured minimum")

	// ErrBadKeySize is returned when the key is not 32 bytes.
	ErrBadKeySize = errors.New("key must be 32 bytes")
)
