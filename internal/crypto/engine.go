// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"io"

	"golang.org/x/crypto/argon2"
)

const (
	saltSize  = 16
	keySize   = 32 // AES-256
	nonceSize = 12 // standard GCM nonce
	tagSize   = 16 // GCM tag
)

// engine is the private implementation of [Cipher].
type engine struct {
	// floor is the weakest Argon2id parameter set the engine accepts.
	// Parameters read back from a vault file are attacker-controlled, so
	// anything below the floor is rejected instead of silently honored.
	floor Params
}

// DefaultParams returns the Argon2id parameters used for newly created
// vaults, following the OWASP (2024) recommendation:
//   - time cost:   1 iteration
//   - memory cost: 64 MiB
//   - parallelism: 4 threads
func DefaultParams() Params {
	return Params{Time: 1, MemoryKiB: 64 * 1024, Threads: 4}
}

// MinParams returns the default floor below which DeriveKey refuses to
// operate.
func MinParams() Params {
	return Params{Time: 1, MemoryKiB: 19 * 1024, Threads: 1}
}

// NewEngine constructs a [Cipher] that refuses key derivation below floor.
// A zero floor falls back to [MinParams].
func NewEngine(floor Params) Cipher {
	if floor == (Params{}) {
		floor = MinParams()
	}
	return &engine{floor: floor}
}

// DeriveKey implements [Cipher]. It derives a 256-bit key from password and
// salt via Argon2id with the supplied cost parameters. The derivation is
// deterministic so a vault can be reopened with the same password.
func (e *engine) DeriveKey(password, salt []byte, p Params) ([]byte, error) {
	if p.Time < e.floor.Time || p.MemoryKiB < e.floor.MemoryKiB || p.Threads < e.floor.Threads {
		return nil, ErrWeakParameters
	}

	return argon2.IDKey(password, salt, p.Time, p.MemoryKiB, p.Threads, keySize), nil
}

// NewSalt implements [Cipher]. It reads 16 random bytes from the OS CSPRNG.
func (e *engine) NewSalt() ([]byte, error) {
	salt := make([]byte, saltSize)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return nil, err
	}
	return salt, nil
}

// Encrypt implements [Cipher]. The returned tag is the trailing 16 bytes
// GCM appends; it is split off so the vault envelope can store it as its
// own field.
func (e *engine) Encrypt(key, plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, nil, nil, err
	}

	nonce = make([]byte, nonceSize)
	if _, err = io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, nil, nil, err
	}

	sealed := gcm.Seal(nil, nonce, plaintext, aad)
	ciphertext, tag = sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return nonce, ciphertext, tag, nil
}

// Decrypt implements [Cipher]. GCM's open performs a constant-time tag
// comparison; every failure mode collapses into ErrAuthentication so the
// error cannot leak whether the key, the data or the aad was wrong.
func (e *engine) Decrypt(key, nonce, ciphertext, tag, aad []byte) ([]byte, error) {
	gcm, err := newGCM(key)
	if err != nil {
		return nil, err
	}

	if len(nonce) != nonceSize || len(tag) != tagSize {
		return nil, ErrAuthentication
	}

	sealed := make([]byte, 0, len(ciphertext)+len(tag))
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, aad)
	if err != nil {
		return nil, ErrAuthentication
	}

	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != keySize {
		return nil, ErrBadKeySize
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}

	return cipher.NewGCM(block)
}
