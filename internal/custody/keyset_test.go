package custody

import (
	"bytes"
	"errors"
	"testing"
)

func TestKeysetRoundTrip(t *testing.T) {
	keys, err := NewKeyset([]byte("master-secret"))
	if err != nil {
		t.Fatalf("new keyset: %v", err)
	}

	secret := []byte("thirty-two-byte-private-key-test")
	sealed, err := keys.Encrypt("+15550001111", secret)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(sealed, secret) {
		t.Fatalf("ciphertext contains plaintext")
	}

	opened, err := keys.Decrypt("+15550001111", sealed)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(opened, secret) {
		t.Fatalf("round trip mismatch: got %q", opened)
	}
}

func TestKeysetRejectsWrongIdentity(t *testing.T) {
	keys, err := NewKeyset([]byte("master-secret"))
	if err != nil {
		t.Fatalf("new keyset: %v", err)
	}

	sealed, err := keys.Encrypt("+15550001111", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	if _, err := keys.Decrypt("+15550002222", sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}
}

func TestKeysetRejectsTampering(t *testing.T) {
	keys, err := NewKeyset([]byte("master-secret"))
	if err != nil {
		t.Fatalf("new keyset: %v", err)
	}

	sealed, err := keys.Encrypt("+15550001111", []byte("secret"))
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	sealed[len(sealed)-1] ^= 0x01

	if _, err := keys.Decrypt("+15550001111", sealed); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed, got %v", err)
	}

	if _, err := keys.Decrypt("+15550001111", []byte("short")); !errors.Is(err, ErrDecryptionFailed) {
		t.Fatalf("expected ErrDecryptionFailed for truncated blob, got %v", err)
	}
}

func TestNewKeysetRequiresSecret(t *testing.T) {
	if _, err := NewKeyset(nil); err == nil {
		t.Fatalf("expected error for empty master secret")
	}
}
