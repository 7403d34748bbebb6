package chain

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"github.com/decred/dcrd/dcrec/secp256k1/v4/ecdsa"
)

// Signer is a short-lived signing capability over a secp256k1 private key.
// Callers must Zero it as soon as the signing operation completes.
type Signer struct {
	key *secp256k1.PrivateKey
}

// NewSigner generates a fresh random keypair.
func NewSigner() (*Signer, error) {
	key, err := secp256k1.GeneratePrivateKey()
	if err != nil {
		return nil, fmt.Errorf("generate key: %w", err)
	}
	return &Signer{key: key}, nil
}

// SignerFromBytes restores a signer from a 32-byte private key scalar.
func SignerFromBytes(b []byte) (*Signer, error) {
	if len(b) != 32 {
		return nil, fmt.Errorf("private key must be 32 bytes, got %d", len(b))
	}
	return &Signer{key: secp256k1.PrivKeyFromBytes(b)}, nil
}

// Address returns the checksummed account address for this key.
func (s *Signer) Address() string {
	return AddressFromPubKey(s.key.PubKey())
}

// Bytes returns the 32-byte private key scalar.
func (s *Signer) Bytes() []byte {
	return s.key.Serialize()
}

// Zero securely erases the private key material.
func (s *Signer) Zero() {
	s.key.Zero()
}

// Transfer describes an unsigned legacy value transfer.
type Transfer struct {
	Nonce    uint64
	GasPrice *big.Int
	GasLimit uint64
	To       string
	Value    *big.Int
	ChainID  *big.Int
}

// SignTransfer signs the transfer with EIP-155 replay protection and returns
// the raw transaction as a 0x-prefixed hex string ready for broadcast.
func (s *Signer) SignTransfer(t Transfer) (string, error) {
	fields, err := transferFields(t)
	if err != nil {
		return "", err
	}

	hash := transferSigningHash(fields, t.ChainID)

	// SignCompact yields [recovery+27, R, S] with a canonical low-S value.
	sig := ecdsa.SignCompact(s.key, hash, false)
	recovery := uint64(sig[0] - 27)
	r := new(big.Int).SetBytes(sig[1:33])
	sv := new(big.Int).SetBytes(sig[33:65])

	v := new(big.Int).Mul(t.ChainID, big.NewInt(2))
	v.Add(v, big.NewInt(35+int64(recovery)))

	signed := append(fields, rlpBig(v), rlpBig(r), rlpBig(sv))
	return "0x" + hex.EncodeToString(rlpList(signed...)), nil
}

func transferFields(t Transfer) ([][]byte, error) {
	if t.ChainID == nil || t.ChainID.Sign() <= 0 {
		return nil, fmt.Errorf("chain id is required")
	}
	if !IsValidAddress(t.To) {
		return nil, fmt.Errorf("invalid destination address %q", t.To)
	}
	to, err := hex.DecodeString(strings.TrimPrefix(strings.ToLower(t.To), "0x"))
	if err != nil {
		return nil, fmt.Errorf("decode destination: %w", err)
	}

	return [][]byte{
		rlpUint(t.Nonce),
		rlpBig(t.GasPrice),
		rlpUint(t.GasLimit),
		rlpBytes(to),
		rlpBig(t.Value),
		rlpBytes(nil),
	}, nil
}

// transferSigningHash computes the EIP-155 preimage hash:
// keccak256(rlp(nonce, gasPrice, gas, to, value, data, chainID, 0, 0)).
func transferSigningHash(fields [][]byte, chainID *big.Int) []byte {
	preimage := append(append([][]byte{}, fields...), rlpBig(chainID), rlpBytes(nil), rlpBytes(nil))
	return keccak256(rlpList(preimage...))
}
