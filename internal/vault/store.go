// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package vault implements the encrypted on-disk store of connection
// profiles. A vault is a single file holding one authenticated ciphertext;
// it is read fully into memory on unlock and rewritten wholesale on every
// mutation (profile counts are tens, not millions).
//
// The store never logs, serializes, or exposes raw passwords or keys
// outside the crypto engine call boundary; callers work with a *Handle
// obtained from a successful Create or Unlock.
package vault

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-ftp-keeper/internal/config"
	"github.com/MKhiriev/go-ftp-keeper/internal/crypto"
	"github.com/MKhiriev/go-ftp-keeper/internal/logger"
	"github.com/MKhiriev/go-ftp-keeper/models"
)

// Store creates and unlocks vault files. It is stateless: all decrypted
// material lives in the *Handle values it returns.
type Store struct {
	cipher crypto.Cipher
	cfg    config.Vault
	log    *logger.Logger
}

// NewStore constructs a Store around the given crypto engine.
func NewStore(cfg config.Vault, cipher crypto.Cipher, log *logger.Logger) *Store {
	return &Store{cipher: cipher, cfg: cfg, log: log}
}

// Create initializes a new vault file at path: fresh salt, the configured
// KDF cost, an empty profile collection. Fails with ErrVaultExists when the
// file is already present and ErrPasswordTooShort when the master password
// violates the configured policy.
func (s *Store) Create(path string, masterPassword []byte) (*Handle, error) {
	if len(masterPassword) < s.cfg.MinPasswordLen {
		return nil, ErrPasswordTooShort
	}

	if _, err := readEnvelope(path); err == nil || !isNotExist(err) {
		if err == nil || errors.Is(err, ErrCorruptVault) || errors.Is(err, ErrUnsupportedVersion) {
			return nil, ErrVaultExists
		}
		return nil, err
	}

	params := crypto.Params{
		Time:      s.cfg.KDF.Time,
		MemoryKiB: s.cfg.KDF.MemoryKiB,
		Threads:   s.cfg.KDF.Threads,
	}

	salt, err := s.cipher.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}

	key, err := s.cipher.DeriveKey(masterPassword, salt, params)
	if err != nil {
		return nil, err
	}

	h := &Handle{
		store:    s,
		path:     path,
		key:      key,
		salt:     salt,
		params:   params,
		profiles: []models.ConnectionProfile{},
	}

	if err := h.persistLocked(); err != nil {
		h.wipe()
		return nil, err
	}

	s.log.Info().Str("path", path).Msg("vault created")
	return h, nil
}

// Unlock opens the vault at path with the supplied master password.
//
// Error contract: a malformed container yields ErrCorruptVault, a future
// format yields ErrUnsupportedVersion, and any authentication failure of
// the payload yields ErrWrongPassword. The last case covers both a wrong
// password and ciphertext corruption: distinguishing them would leak
// information, so they collapse into one user-facing kind. Unlock never
// retries by itself.
func (s *Store) Unlock(path string, masterPassword []byte) (*Handle, error) {
	e, err := readEnvelope(path)
	if err != nil {
		return nil, err
	}

	key, err := s.cipher.DeriveKey(masterPassword, e.Salt, e.KDF)
	if err != nil {
		// Includes crypto.ErrWeakParameters: stored costs were downgraded
		// below the configured floor, refuse to derive.
		return nil, err
	}

	plaintext, err := s.cipher.Decrypt(key, e.Nonce, e.Ciphertext, e.Tag, e.aad())
	if err != nil {
		if errors.Is(err, crypto.ErrAuthentication) {
			return nil, ErrWrongPassword
		}
		return nil, err
	}

	var profiles []models.ConnectionProfile
	if err := json.Unmarshal(plaintext, &profiles); err != nil {
		// Authenticated but undecodable: the writer was broken, not the
		// password.
		return nil, fmt.Errorf("%w: payload decode: %w", ErrCorruptVault, err)
	}

	s.log.Info().Str("path", path).Int("profiles", len(profiles)).Msg("vault unlocked")

	return &Handle{
		store:    s,
		path:     path,
		key:      key,
		salt:     e.Salt,
		params:   e.KDF,
		profiles: profiles,
	}, nil
}
