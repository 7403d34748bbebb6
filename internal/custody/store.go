package custody

import (
	"context"
	"time"

	"github.com/baintwallet/baintwallet/internal/chain"
)

// Store owns the custodial key lifecycle: generation, encrypted persistence,
// and scoped decryption for signing. Plaintext key material never leaves the
// signing callback.
type Store struct {
	repo Repository
	keys *Keyset
}

// NewStore builds a custody store over a repository and master secret.
func NewStore(repo Repository, masterSecret []byte) (*Store, error) {
	keys, err := NewKeyset(masterSecret)
	if err != nil {
		return nil, err
	}
	return &Store{repo: repo, keys: keys}, nil
}

// Exists reports whether a wallet has been provisioned for the identity.
func (s *Store) Exists(ctx context.Context, identity string) (bool, error) {
	return s.repo.Exists(ctx, identity)
}

// Provision generates a fresh keypair, stores the encrypted record, and
// returns the public address. Returns ErrAlreadyProvisioned if a record
// exists; the repository's atomic create guarantees at most one record per
// identity even under concurrent calls.
func (s *Store) Provision(ctx context.Context, identity string) (string, error) {
	signer, err := chain.NewSigner()
	if err != nil {
		return "", err
	}
	defer signer.Zero()

	secret := signer.Bytes()
	defer zero(secret)

	sealed, err := s.keys.Encrypt(identity, secret)
	if err != nil {
		return "", err
	}

	rec := WalletRecord{
		OwnerIdentity: identity,
		Address:       signer.Address(),
		EncryptedKey:  sealed,
		CreatedAt:     time.Now().UTC(),
	}
	if err := s.repo.Create(ctx, rec); err != nil {
		return "", err
	}
	return rec.Address, nil
}

// AddressOf returns the public address stored for the identity.
func (s *Store) AddressOf(ctx context.Context, identity string) (string, error) {
	rec, err := s.repo.Get(ctx, identity)
	if err != nil {
		return "", err
	}
	return rec.Address, nil
}

// WithSigningHandle decrypts the identity's private key into a short-lived
// signer, invokes fn with it, and erases the key material before returning on
// every path, including panic unwinds.
func (s *Store) WithSigningHandle(ctx context.Context, identity string, fn func(*chain.Signer) error) error {
	rec, err := s.repo.Get(ctx, identity)
	if err != nil {
		return err
	}

	secret, err := s.keys.Decrypt(identity, rec.EncryptedKey)
	if err != nil {
		return err
	}
	defer zero(secret)

	signer, err := chain.SignerFromBytes(secret)
	if err != nil {
		return err
	}
	defer signer.Zero()

	return fn(signer)
}
