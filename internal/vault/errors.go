package vault

import "errors"

var (
	// ErrWrongPassword is returned when the vault payload fails to
	// authenticate. A wrong master password and a corrupted ciphertext are
	// indistinguishable at this layer and deliberately collapse into one
	// error so nothing leaks about which it was.
	ErrWrongPassword = errors.New("wrong master password")

	// ErrCorruptVault is returned when the outer container format is
	// malformed (unreadable envelope, missing fields, truncated file).
	ErrCorruptVault = errors.New("vault file is corrupt")

	// ErrUnsupportedVersion is returned when the vault file declares a
	// format version this build does not understand.
	ErrUnsupportedVersion = errors.New("unsupported vault format version")

	// ErrVaultExists is returned by Create when the target file already
	// exists. Creating over a vault would destroy its profiles.
	ErrVaultExists = errors.New("vault file already exists")

	// ErrLocked is returned by any handle operation after Lock.
	ErrLocked = errors.New("vault handle is locked")

	// ErrProfileNotFound is returned when no profile has the given id.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrPasswordTooShort is returned when a master password does not meet
	// the configured minimum length.
	ErrPasswordTooShort = errors.New("master password below minimum length")
)
