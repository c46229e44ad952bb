// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package vault

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/MKhiriev/go-ftp-keeper/internal/crypto"
	"github.com/MKhiriev/go-ftp-keeper/models"
	"github.com/google/uuid"
)

// Handle is an unlocked vault: the decrypted profile collection plus the
// key material needed to re-encrypt it. Its lifetime is scoped by an
// explicit Unlock/Lock pair; Lock wipes the key and in-memory profiles.
//
// All mutations re-encrypt the full collection under the current key and
// atomically replace the file. A mutex guarantees no two mutations
// (add/update/remove/password change) interleave.
type Handle struct {
	store  *Store
	path   string
	params crypto.Params

	mu       sync.Mutex
	key      []byte
	salt     []byte
	profiles []models.ConnectionProfile
	locked   bool
}

// Profiles returns the profile collection in insertion order. The order is
// preserved across save/load round-trips. The returned slice is a copy.
func (h *Handle) Profiles() ([]models.ConnectionProfile, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return nil, ErrLocked
	}

	out := make([]models.ConnectionProfile, len(h.profiles))
	copy(out, h.profiles)
	return out, nil
}

// Profile returns the profile with the given id.
func (h *Handle) Profile(id uuid.UUID) (models.ConnectionProfile, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return models.ConnectionProfile{}, ErrLocked
	}

	for _, p := range h.profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return models.ConnectionProfile{}, ErrProfileNotFound
}

// ProfileByName returns the first profile with the given display name.
func (h *Handle) ProfileByName(name string) (models.ConnectionProfile, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return models.ConnectionProfile{}, ErrLocked
	}

	for _, p := range h.profiles {
		if p.Name == name {
			return p, nil
		}
	}
	return models.ConnectionProfile{}, ErrProfileNotFound
}

// Add appends the profile to the collection and persists. A zero ID is
// assigned, CreatedAt is stamped. Returns the stored profile.
func (h *Handle) Add(p models.ConnectionProfile) (models.ConnectionProfile, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return models.ConnectionProfile{}, ErrLocked
	}

	if p.ID == uuid.Nil {
		p.ID = models.NewID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}

	h.profiles = append(h.profiles, p)
	if err := h.persistLocked(); err != nil {
		h.profiles = h.profiles[:len(h.profiles)-1]
		return models.ConnectionProfile{}, err
	}

	h.store.log.Info().Str("profile_id", p.ID.String()).Str("name", p.Name).Msg("profile added")
	return p, nil
}

// Update replaces the stored profile with the same ID and persists,
// keeping its position in the collection.
func (h *Handle) Update(p models.ConnectionProfile) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return ErrLocked
	}

	for i := range h.profiles {
		if h.profiles[i].ID == p.ID {
			prev := h.profiles[i]
			h.profiles[i] = p
			if err := h.persistLocked(); err != nil {
				h.profiles[i] = prev
				return err
			}
			return nil
		}
	}
	return ErrProfileNotFound
}

// Remove deletes the profile with the given id and persists.
func (h *Handle) Remove(id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return ErrLocked
	}

	for i := range h.profiles {
		if h.profiles[i].ID == id {
			prev := h.profiles
			h.profiles = append(append([]models.ConnectionProfile{}, prev[:i]...), prev[i+1:]...)
			if err := h.persistLocked(); err != nil {
				h.profiles = prev
				return err
			}
			h.store.log.Info().Str("profile_id", id.String()).Msg("profile removed")
			return nil
		}
	}
	return ErrProfileNotFound
}

// TouchLastUsed stamps the profile's LastUsedAt and persists.
func (h *Handle) TouchLastUsed(id uuid.UUID) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return ErrLocked
	}

	for i := range h.profiles {
		if h.profiles[i].ID == id {
			prev := h.profiles[i].LastUsedAt
			h.profiles[i].LastUsedAt = time.Now().UTC()
			if err := h.persistLocked(); err != nil {
				h.profiles[i].LastUsedAt = prev
				return err
			}
			return nil
		}
	}
	return ErrProfileNotFound
}

// ChangeMasterPassword re-keys the vault: fresh salt, key derived from the
// new password with the store's configured cost, full re-encrypt, atomic
// replace. The old file is never reachable in a half-rotated state because
// the rename is the commit point.
func (h *Handle) ChangeMasterPassword(newPassword []byte) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.locked {
		return ErrLocked
	}

	if len(newPassword) < h.store.cfg.MinPasswordLen {
		return ErrPasswordTooShort
	}

	salt, err := h.store.cipher.NewSalt()
	if err != nil {
		return fmt.Errorf("generate salt: %w", err)
	}

	params := crypto.Params{
		Time:      h.store.cfg.KDF.Time,
		MemoryKiB: h.store.cfg.KDF.MemoryKiB,
		Threads:   h.store.cfg.KDF.Threads,
	}

	key, err := h.store.cipher.DeriveKey(newPassword, salt, params)
	if err != nil {
		return err
	}

	prevKey, prevSalt, prevParams := h.key, h.salt, h.params
	h.key, h.salt, h.params = key, salt, params

	if err := h.persistLocked(); err != nil {
		h.key, h.salt, h.params = prevKey, prevSalt, prevParams
		return err
	}

	wipeBytes(prevKey)
	h.store.log.Info().Str("path", h.path).Msg("master password changed")
	return nil
}

// Lock wipes the key and the decrypted profile collection. Every later
// call on the handle fails with ErrLocked.
func (h *Handle) Lock() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wipeLocked()
}

// persistLocked re-encrypts the full collection and atomically replaces
// the vault file. Callers must hold h.mu (Create calls it before the
// handle escapes).
func (h *Handle) persistLocked() error {
	plaintext, err := json.Marshal(h.profiles)
	if err != nil {
		return fmt.Errorf("encode profiles: %w", err)
	}

	e := &envelope{
		Version: formatVersion,
		KDF:     h.params,
		Salt:    h.salt,
	}

	nonce, ciphertext, tag, err := h.store.cipher.Encrypt(h.key, plaintext, e.aad())
	if err != nil {
		return fmt.Errorf("encrypt profiles: %w", err)
	}
	e.Nonce, e.Ciphertext, e.Tag = nonce, ciphertext, tag

	return writeEnvelope(h.path, e)
}

func (h *Handle) wipe() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.wipeLocked()
}

func (h *Handle) wipeLocked() {
	wipeBytes(h.key)
	h.key = nil
	h.profiles = nil
	h.locked = true
}

func wipeBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
