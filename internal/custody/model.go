package custody

import "time"

// WalletRecord is the stored custody entry for one identity. The private key
// exists only as ciphertext; Address is immutable once written.
type WalletRecord struct {
	OwnerIdentity string
	Address       string
	EncryptedKey  []byte
	CreatedAt     time.Time
}
