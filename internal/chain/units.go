package chain

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidAmount indicates an amount string that cannot be converted to a
// positive wei value.
var ErrInvalidAmount = errors.New("invalid amount")

const etherDecimals = 18

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals), nil)

// ToWei converts a decimal ether amount such as "0.01" into wei. The amount
// must be strictly positive and carry at most 18 decimal places.
func ToWei(amount string) (*big.Int, error) {
	amount = strings.TrimSpace(amount)
	if amount == "" || strings.HasPrefix(amount, "-") || strings.HasPrefix(amount, "+") {
		return nil, ErrInvalidAmount
	}

	whole, frac := amount, ""
	if i := strings.IndexByte(amount, '.'); i >= 0 {
		whole, frac = amount[:i], amount[i+1:]
	}
	if whole == "" && frac == "" {
		return nil, ErrInvalidAmount
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, ErrInvalidAmount
	}
	if len(frac) > etherDecimals {
		return nil, fmt.Errorf("%w: more than %d decimal places", ErrInvalidAmount, etherDecimals)
	}

	wei := new(big.Int)
	if whole != "" {
		if _, ok := wei.SetString(whole, 10); !ok {
			return nil, ErrInvalidAmount
		}
		wei.Mul(wei, weiPerEther)
	}
	if frac != "" {
		fracWei, ok := new(big.Int).SetString(frac+strings.Repeat("0", etherDecimals-len(frac)), 10)
		if !ok {
			return nil, ErrInvalidAmount
		}
		wei.Add(wei, fracWei)
	}

	if wei.Sign() <= 0 {
		return nil, ErrInvalidAmount
	}
	return wei, nil
}

// FormatWei renders a wei value as ether with 4 decimal places, rounded half
// up, e.g. 10_500_000_000_000_000 -> "0.0105".
func FormatWei(wei *big.Int) string {
	if wei == nil {
		return "0.0000"
	}

	quantum := new(big.Int).Exp(big.NewInt(10), big.NewInt(etherDecimals-4), nil)
	rounded := new(big.Int).Add(wei, new(big.Int).Div(quantum, big.NewInt(2)))
	rounded.Div(rounded, quantum)

	whole := new(big.Int)
	frac := new(big.Int)
	whole.DivMod(rounded, big.NewInt(10_000), frac)
	return fmt.Sprintf("%s.%04d", whole.String(), frac.Int64())
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}
