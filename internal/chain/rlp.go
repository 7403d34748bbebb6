package chain

import "math/big"

// Minimal RLP encoding, enough for the single legacy value-transfer shape this
// service signs. Only byte strings and flat lists of pre-encoded items are
// supported.

func rlpBytes(b []byte) []byte {
	if len(b) == 1 && b[0] < 0x80 {
		return b
	}
	return append(rlpLength(len(b), 0x80), b...)
}

func rlpUint(v uint64) []byte {
	return rlpBig(new(big.Int).SetUint64(v))
}

func rlpBig(v *big.Int) []byte {
	if v == nil || v.Sign() == 0 {
		return []byte{0x80}
	}
	return rlpBytes(v.Bytes())
}

func rlpList(items ...[]byte) []byte {
	var payload []byte
	for _, item := range items {
		payload = append(payload, item...)
	}
	return append(rlpLength(len(payload), 0xc0), payload...)
}

func rlpLength(n int, offset byte) []byte {
	if n <= 55 {
		return []byte{offset + byte(n)}
	}
	size := big.NewInt(int64(n)).Bytes()
	header := []byte{offset + 55 + byte(len(size))}
	return append(header, size...)
}
