package sui

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// MistPerSUI is the number of MIST in one SUI.
const MistPerSUI = 1_000_000_000

const suiDecimals = 9

// MistToSUI converts MIST to SUI.
func MistToSUI(mist uint64) decimal.Decimal {
	return decimal.NewFromUint64(mist).Shift(-suiDecimals)
}

// SUIToMist parses a SUI amount such as "0.25" into MIST.
func SUIToMist(amount string) (uint64, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if d.IsNegative() {
		return 0, fmt.Errorf("amount must not be negative")
	}
	mist := d.Shift(suiDecimals)
	if !mist.Equal(mist.Truncate(0)) {
		return 0, fmt.Errorf("amount %q has more than %d decimals", amount, suiDecimals)
	}
	if !mist.BigInt().IsUint64() {
		return 0, fmt.Errorf("amount %q is too large", amount)
	}
	return mist.BigInt().Uint64(), nil
}
