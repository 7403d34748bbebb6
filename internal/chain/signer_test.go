package chain

import (
	"bytes"
	"encoding/hex"
	"math/big"
	"strings"
	"testing"
)

// EIP-155 reference transaction: nonce 9, 20 gwei gas price, 21000 gas,
// 1 ether to 0x3535...35 on chain 1, signed with the all-46 private key.
func eip155Fixture(t *testing.T) (*Signer, Transfer) {
	t.Helper()

	key, err := hex.DecodeString("4646464646464646464646464646464646464646464646464646464646464646")
	if err != nil {
		t.Fatalf("decode key: %v", err)
	}
	signer, err := SignerFromBytes(key)
	if err != nil {
		t.Fatalf("signer from bytes: %v", err)
	}

	return signer, Transfer{
		Nonce:    9,
		GasPrice: big.NewInt(20_000_000_000),
		GasLimit: 21000,
		To:       "0x3535353535353535353535353535353535353535",
		Value:    new(big.Int).Mul(big.NewInt(1), big.NewInt(1e18)),
		ChainID:  big.NewInt(1),
	}
}

func TestSignerAddress(t *testing.T) {
	signer, _ := eip155Fixture(t)
	defer signer.Zero()

	if !strings.EqualFold(signer.Address(), "0x9d8A62f656a8d1615C1294fd71e9CFb3E4855A4F") {
		t.Fatalf("unexpected address %s", signer.Address())
	}
	if !IsValidAddress(signer.Address()) {
		t.Fatalf("derived address %q is malformed", signer.Address())
	}
}

func TestTransferSigningHash(t *testing.T) {
	_, tx := eip155Fixture(t)

	fields, err := transferFields(tx)
	if err != nil {
		t.Fatalf("transfer fields: %v", err)
	}

	want, _ := hex.DecodeString("daf5a779ae972f972197303d7b574746c7ef83eadac0f2791ad23db92e4c8e53")
	if got := transferSigningHash(fields, tx.ChainID); !bytes.Equal(got, want) {
		t.Fatalf("signing hash = %x, want %x", got, want)
	}
}

func TestSignTransferMatchesReferenceVector(t *testing.T) {
	signer, tx := eip155Fixture(t)
	defer signer.Zero()

	raw, err := signer.SignTransfer(tx)
	if err != nil {
		t.Fatalf("sign transfer: %v", err)
	}

	want := "0xf86c098504a817c800825208943535353535353535353535353535353535353535880de0b6b3a76400008025a028ef61340bd939bc2195fe537567866003e1a15d3c71ff63e1590620aa636276a067cbe9d8997f761aecb703304b3800ccf555c9f3dc64214b297fb1966a3b6d83"
	if raw != want {
		t.Fatalf("signed tx mismatch:\n got %s\nwant %s", raw, want)
	}
}

func TestSignTransferRejectsBadInput(t *testing.T) {
	signer, tx := eip155Fixture(t)
	defer signer.Zero()

	bad := tx
	bad.To = "notanaddress"
	if _, err := signer.SignTransfer(bad); err == nil {
		t.Fatalf("expected error for malformed destination")
	}

	bad = tx
	bad.ChainID = nil
	if _, err := signer.SignTransfer(bad); err == nil {
		t.Fatalf("expected error for missing chain id")
	}
}

func TestSignerFromBytesLength(t *testing.T) {
	if _, err := SignerFromBytes([]byte("short")); err == nil {
		t.Fatalf("expected error for short key")
	}
}

func TestNewSignerGeneratesDistinctKeys(t *testing.T) {
	a, err := NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	defer a.Zero()
	b, err := NewSigner()
	if err != nil {
		t.Fatalf("new signer: %v", err)
	}
	defer b.Zero()

	if a.Address() == b.Address() {
		t.Fatalf("two generated signers share an address")
	}
}
