package aptos

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// OctasPerAPT is the number of octas in one APT (or MOVE).
const OctasPerAPT = 100_000_000

const aptDecimals = 8

// OctasToAPT converts octas to APT.
func OctasToAPT(octas uint64) decimal.Decimal {
	return decimal.NewFromUint64(octas).Shift(-aptDecimals)
}

// APTToOctas parses an APT amount such as "0.1" into octas.
func APTToOctas(amount string) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	octas := d.Shift(aptDecimals)
	if !octas.Equal(octas.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than %d decimals", amount, aptDecimals)
	}
	if !octas.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount %q is too large", amount)
	}
	return octas.BigInt().Uint64(), nil
}
