package custody

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

// ErrDecryptionFailed indicates stored key material could not be decrypted
// with the key derived for the identity. The wallet is unusable; this is not
// a transient condition.
var ErrDecryptionFailed = errors.New("decryption failed")

const derivedKeySize = 32

// Keyset performs at-rest encryption of private key material. Each identity
// gets its own AES-256-GCM key derived from the process master secret, so a
// record decrypts only for the identity it was sealed under.
type Keyset struct {
	master []byte
}

// NewKeyset builds a keyset over the process-wide master secret.
func NewKeyset(masterSecret []byte) (*Keyset, error) {
	if len(masterSecret) == 0 {
		return nil, fmt.Errorf("master secret is required")
	}
	master := make([]byte, len(masterSecret))
	copy(master, masterSecret)
	return &Keyset{master: master}, nil
}

// Encrypt seals plaintext under the identity-derived key. The returned blob
// is nonce || ciphertext.
func (k *Keyset) Encrypt(identity string, plaintext []byte) ([]byte, error) {
	aead, err := k.aead(identity)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Decrypt opens a sealed blob with the identity-derived key. Any tampering or
// identity mismatch yields ErrDecryptionFailed, never a wrong plaintext.
func (k *Keyset) Decrypt(identity string, sealed []byte) ([]byte, error) {
	aead, err := k.aead(identity)
	if err != nil {
		return nil, err
	}

	if len(sealed) < aead.NonceSize() {
		return nil, ErrDecryptionFailed
	}
	nonce, ciphertext := sealed[:aead.NonceSize()], sealed[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecryptionFailed
	}
	return plaintext, nil
}

func (k *Keyset) aead(identity string) (cipher.AEAD, error) {
	key := make([]byte, derivedKeySize)
	reader := hkdf.New(sha256.New, k.master, []byte(identity), []byte("wallet-key-v1"))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive key: %w", err)
	}
	defer zero(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init cipher: %w", err)
	}
	return cipher.NewGCM(block)
}

func zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
