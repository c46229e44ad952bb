package crypto

//go:generate mockgen -source=interfaces.go -destination=../mock/cipher_mock.go -package=mock

// Params are the Argon2id cost parameters stored alongside the vault so the
// same key can be re-derived on unlock. They are attacker-visible; the
// engine enforces a floor on them to defend against downgrade of stored
// parameters.
type Params struct {
	// Time is the number of Argon2id passes.
	Time uint32 `json:"time"`

	// MemoryKiB is the Argon2id memory cost in KiB.
	MemoryKiB uint32 `json:"memory_kib"`

	// Threads is the Argon2id parallelism degree.
	Threads uint8 `json:"threads"`
}

// Cipher is the vault store's dependency surface onto the crypto engine.
// Implementations are pure: no I/O, no logging, CPU/memory use only. That
// isolation lets the vault store be tested against the engine as a pure
// function.
//
// Scheme:
//
//	key                     = DeriveKey(masterPassword, salt, params)
//	nonce, ciphertext, tag  = Encrypt(key, plaintext, header)
//	plaintext               = Decrypt(key, nonce, ciphertext, tag, header)
type Cipher interface {
	// DeriveKey derives a 256-bit key from the master password and salt
	// using Argon2id. Same inputs always yield the same key. Returns
	// ErrWeakParameters when p falls below the configured floor.
	DeriveKey(password, salt []byte, p Params) ([]byte, error)

	// NewSalt returns a fresh random 16-byte salt.
	NewSalt() ([]byte, error)

	// Encrypt seals plaintext with AES-256-GCM under key, binding aad into
	// the authentication tag. The nonce is generated fresh per call and is
	// never reused for the same key.
	Encrypt(key, plaintext, aad []byte) (nonce, ciphertext, tag []byte, err error)

	// Decrypt opens the ciphertext. Any corruption of nonce, ciphertext,
	// tag or aad, and any wrong key, yields ErrAuthentication with no
	// partial plaintext and no hint about which part failed.
	Decrypt(key, nonce, ciphertext, tag, aad []byte) ([]byte, error)
}
