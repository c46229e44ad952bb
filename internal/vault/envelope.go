// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MKhiriev/go-ftp-keeper/internal/crypto"
)

// formatVersion is the current on-disk vault format. Readers must reject
// anything newer instead of misparsing it.
const formatVersion = 1

// envelope is the persisted vault container. Everything an attacker can see
// on disk lives here; the profile collection itself is only ever present
// inside Ciphertext. []byte fields serialize as base64 per encoding/json.
type envelope struct {
	// Version is the container format version.
	Version int `json:"version"`

	// KDF are the Argon2id cost parameters the key was derived with.
	KDF crypto.Params `json:"kdf"`

	// Salt is the key-derivation salt.
	Salt []byte `json:"salt"`

	// Nonce is the AES-GCM nonce of this ciphertext.
	Nonce []byte `json:"nonce"`

	// Ciphertext is the encrypted, JSON-encoded profile collection.
	Ciphertext []byte `json:"ciphertext"`

	// Tag is the GCM authentication tag.
	Tag []byte `json:"tag"`
}

// aad returns the canonical header bytes bound into the authentication tag.
// Covering version, KDF parameters and salt means tampering with any of
// them fails decryption instead of silently weakening the vault.
func (e *envelope) aad() []byte {
	return fmt.Appendf(nil, "ftpkeeper-vault|v%d|t%d|m%d|p%d|%s",
		e.Version, e.KDF.Time, e.KDF.MemoryKiB, e.KDF.Threads,
		base64.StdEncoding.EncodeToString(e.Salt))
}

// readEnvelope loads and structurally validates a vault file. It reports
// ErrUnsupportedVersion for a future format and ErrCorruptVault for any
// malformed container; payload authenticity is checked later by decryption.
func readEnvelope(path string) (*envelope, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vault file: %w", err)
	}

	var e envelope
	if err := json.Unmarshal(data, &e); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorruptVault, err)
	}

	if e.Version > formatVersion {
		return nil, fmt.Errorf("%w: file version %d, supported up to %d",
			ErrUnsupportedVersion, e.Version, formatVersion)
	}
	if e.Version < 1 || len(e.Salt) == 0 || len(e.Nonce) == 0 || len(e.Tag) == 0 {
		return nil, ErrCorruptVault
	}

	return &e, nil
}

// writeEnvelope persists the envelope with write-temp-then-rename
// discipline: the previous vault file stays intact until the replacement is
// fully on disk, so a crash never leaves a partially written vault.
func writeEnvelope(path string, e *envelope) error {
	payload, err := json.MarshalIndent(e, "", "  ")
	if err != nil {
		return fmt.Errorf("encode vault envelope: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".vault-*")
	if err != nil {
		return fmt.Errorf("create temp vault file: %w", err)
	}
	tmpName := tmp.Name()

	if err := writeAndClose(tmp, payload); err != nil {
		_ = os.Remove(tmpName)
		return err
	}

	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replace vault file: %w", err)
	}

	return nil
}

func writeAndClose(f *os.File, payload []byte) error {
	if err := f.Chmod(0o600); err != nil {
		_ = f.Close()
		return fmt.Errorf("chmod temp vault file: %w", err)
	}
	if _, err := f.Write(payload); err != nil {
		_ = f.Close()
		return fmt.Errorf("write temp vault file: %w", err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		return fmt.Errorf("sync temp vault file: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp vault file: %w", err)
	}
	return nil
}

// isNotExist reports whether err means the vault file is absent.
func isNotExist(err error) bool {
	return errors.Is(err, os.ErrNotExist)
}
