package chain

import (
	"encoding/hex"
	"strings"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/sha3"
)

// IsValidAddress reports whether s is a well-formed hex account address:
// the 0x prefix followed by exactly 40 hex digits.
func IsValidAddress(s string) bool {
	if len(s) != 42 || !strings.HasPrefix(s, "0x") {
		return false
	}
	_, err := hex.DecodeString(s[2:])
	return err == nil
}

// AddressFromPubKey derives the account address from a secp256k1 public key:
// the last 20 bytes of the Keccak-256 hash of the uncompressed key, mixed-case
// checksummed.
func AddressFromPubKey(pub *secp256k1.PublicKey) string {
	raw := pub.SerializeUncompressed()
	sum := keccak256(raw[1:])
	return ChecksumAddress("0x" + hex.EncodeToString(sum[12:]))
}

// ChecksumAddress returns the EIP-55 mixed-case form of a hex address. The
// input must already be a valid address; casing of the input is ignored.
func ChecksumAddress(addr string) string {
	body := strings.ToLower(strings.TrimPrefix(addr, "0x"))
	sum := keccak256([]byte(body))

	out := make([]byte, len(body))
	for i := 0; i < len(body); i++ {
		c := body[i]
		if c >= 'a' && c <= 'f' {
			nibble := sum[i/2]
			if i%2 == 0 {
				nibble >>= 4
			}
			if nibble&0x0f >= 8 {
				c = c - 'a' + 'A'
			}
		}
		out[i] = c
	}
	return "0x" + string(out)
}

func keccak256(data ...[]byte) []byte {
	h := sha3.NewLegacyKeccak256()
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}
