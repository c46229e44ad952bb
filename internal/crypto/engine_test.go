package crypto

import (
	"bytes"
	"errors"
	"testing"
)

// fastParams keeps Argon2id cheap in tests while staying above MinParams.
func fastParams() Params {
	return Params{Time: 1, MemoryKiB: 19 * 1024, Threads: 1}
}

func TestNewSalt_LengthAndRandomness(t *testing.T) {
	eng := NewEngine(Params{})

	s1, err := eng.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt error: %v", err)
	}
	s2, err := eng.NewSalt()
	if err != nil {
		t.Fatalf("NewSalt error: %v", err)
	}

	if len(s1) != 16 {
		t.Fatalf("salt length = %d, want 16", len(s1))
	}
	if bytes.Equal(s1, s2) {
		t.Fatalf("expected salts to differ, but they are equal")
	}
}

func TestDeriveKey_DeterministicForSameInputs(t *testing.T) {
	eng := NewEngine(Params{})

	password := []byte("correct horse battery staple")
	salt := bytes.Repeat([]byte{0xAB}, 16)

	k1, err := eng.DeriveKey(password, salt, fastParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := eng.DeriveKey(password, salt, fastParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if len(k1) != 32 {
		t.Fatalf("key length = %d, want 32", len(k1))
	}
	if !bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to match for same password+salt+params")
	}
}

func TestDeriveKey_DifferentSaltProducesDifferentKey(t *testing.T) {
	eng := NewEngine(Params{})

	password := []byte("same password")
	k1, err := eng.DeriveKey(password, bytes.Repeat([]byte{0x01}, 16), fastParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}
	k2, err := eng.DeriveKey(password, bytes.Repeat([]byte{0x02}, 16), fastParams())
	if err != nil {
		t.Fatalf("DeriveKey error: %v", err)
	}

	if bytes.Equal(k1, k2) {
		t.Fatalf("expected keys to differ for different salts")
	}
}

func TestDeriveKey_RejectsDowngradedParameters(t *testing.T) {
	eng := NewEngine(Params{Time: 1, MemoryKiB: 19 * 1024, Threads: 1})

	weak := []Params{
		{Time: 0, MemoryKiB: 19 * 1024, Threads: 1},
		{Time: 1, MemoryKiB: 1024, Threads: 1},
		{Time: 1, MemoryKiB: 19 * 1024, Threads: 0},
	}

	for _, p := range weak {
		_, err := eng.DeriveKey([]byte("pw"), bytes.Repeat([]byte{0x0F}, 16), p)
		if !errors.Is(err, ErrWeakParameters) {
			t.Fatalf("params %+v: err = %v, want ErrWeakParameters", p, err)
		}
	}
}

func TestEncryptDecrypt_RoundTrip(t *testing.T) {
	eng := NewEngine(Params{})
	key := bytes.Repeat([]byte{0x42}, 32)
	plaintext := []byte(`[{"name":"home-nas","host":"nas.local"}]`)
	aad := []byte("header-v1")

	nonce, ciphertext, tag, err := eng.Encrypt(key, plaintext, aad)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	if len(nonce) != 12 {
		t.Fatalf("nonce length = %d, want 12", len(nonce))
	}
	if len(tag) != 16 {
		t.Fatalf("tag length = %d, want 16", len(tag))
	}

	got, err := eng.Decrypt(key, nonce, ciphertext, tag, aad)
	if err != nil {
		t.Fatalf("Decrypt error: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Fatalf("round trip mismatch: got %q want %q", got, plaintext)
	}
}

func TestEncrypt_FreshNoncePerCall(t *testing.T) {
	eng := NewEngine(Params{})
	key := bytes.Repeat([]byte{0x42}, 32)

	n1, _, _, err := eng.Encrypt(key, []byte("x"), nil)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}
	n2, _, _, err := eng.Encrypt(key, []byte("x"), nil)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	if bytes.Equal(n1, n2) {
		t.Fatalf("expected nonces to differ across calls")
	}
}

func TestDecrypt_FailsClosed(t *testing.T) {
	eng := NewEngine(Params{})
	key := bytes.Repeat([]byte{0x42}, 32)
	aad := []byte("header-v1")

	nonce, ciphertext, tag, err := eng.Encrypt(key, []byte("secret payload"), aad)
	if err != nil {
		t.Fatalf("Encrypt error: %v", err)
	}

	t.Run("wrong key", func(t *testing.T) {
		other := bytes.Repeat([]byte{0x43}, 32)
		if _, err := eng.Decrypt(other, nonce, ciphertext, tag, aad); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("err = %v, want ErrAuthentication", err)
		}
	})

	t.Run("flipped ciphertext byte", func(t *testing.T) {
		for i := range ciphertext {
			corrupted := bytes.Clone(ciphertext)
			corrupted[i] ^= 0x01
			if _, err := eng.Decrypt(key, nonce, corrupted, tag, aad); !errors.Is(err, ErrAuthentication) {
				t.Fatalf("byte %d: err = %v, want ErrAuthentication", i, err)
			}
		}
	})

	t.Run("flipped tag byte", func(t *testing.T) {
		corrupted := bytes.Clone(tag)
		corrupted[0] ^= 0x01
		if _, err := eng.Decrypt(key, nonce, ciphertext, corrupted, aad); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("err = %v, want ErrAuthentication", err)
		}
	})

	t.Run("different aad", func(t *testing.T) {
		if _, err := eng.Decrypt(key, nonce, ciphertext, tag, []byte("header-v2")); !errors.Is(err, ErrAuthentication) {
			t.Fatalf("err = %v, want ErrAuthentication", err)
		}
	})
}

func TestDecrypt_BadKeySize(t *testing.T) {
	eng := NewEngine(Params{})

	_, _, _, err := eng.Encrypt([]byte("short"), []byte("x"), nil)
	if !errors.Is(err, ErrBadKeySize) {
		t.Fatalf("err = %v, want ErrBadKeySize", err)
	}
}
