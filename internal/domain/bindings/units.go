package bindings

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/buidlhub/buidl-cli/internal/domain"
)

// EtherDecimals is the decimals of ether and of every 18-decimal token.
const EtherDecimals = 18

// ParseUnits converts a decimal amount such as "1.5" into base units.
func ParseUnits(amount string, decimals int) (*big.Int, error) {
	trimmed := strings.TrimSpace(amount)
	if strings.ContainsAny(trimmed, "/eExX") {
		return nil, fmt.Errorf("%w: %q is not a decimal amount", domain.ErrInvalidInput, amount)
	}
	r, ok := new(big.Rat).SetString(trimmed)
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a decimal amount", domain.ErrInvalidInput, amount)
	}
	if r.Sign() < 0 {
		return nil, fmt.Errorf("%w: negative amount %q", domain.ErrInvalidInput, amount)
	}
	scale := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
	r.Mul(r, new(big.Rat).SetInt(scale))
	if !r.IsInt() {
		return nil, fmt.Errorf("%w: %q has more than %d decimals", domain.ErrInvalidInput, amount, decimals)
	}
	return new(big.Int).Set(r.Num()), nil
}

// ParseEther is ParseUnits with 18 decimals.
func ParseEther(amount string) (*big.Int, error) {
	return ParseUnits(amount, EtherDecimals)
}

// FormatUnits renders base units as a decimal amount without trailing zeros.
func FormatUnits(v *big.Int, decimals int) string {
	if v == nil {
		return "0"
	}
	s := new(big.Rat).SetFrac(v, new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)).FloatString(decimals)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	}
	return s
}

// FormatEther is FormatUnits with 18 decimals.
func FormatEther(v *big.Int) string {
	return FormatUnits(v, EtherDecimals)
}
