package utils

import (
	"fmt"
	"math/big"

	"token_balance/internal/domain/entity"

	"github.com/shopspring/decimal"
)

// ValidateDecimals checks that decimals is a usable token precision.
func ValidateDecimals(decimals int) error {
	if decimals < 0 || decimals > entity.MaxDecimals {
		return fmt.Errorf("decimals %d outside [0, %d]: %w", decimals, entity.MaxDecimals, entity.ErrDecimalsInvalid)
	}
	return nil
}

// RawToHuman converts an integer-unit balance into a human-scale amount.
// Example: raw=1234500000000000000, decimals=18 => 1.2345
// A nil or zero raw balance yields exact zero.
func RawToHuman(raw *big.Int, decimals int) (decimal.Decimal, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return decimal.Zero, err
	}
	if raw == nil || raw.Sign() == 0 {
		return decimal.Zero, nil
	}
	// raw * 10^-decimals is exact, no division involved.
	return decimal.NewFromBigInt(raw, int32(-decimals)), nil
}

// HumanToRaw converts a human-scale amount into integer units.
// Digits below one raw unit are truncated toward zero, so the result never
// exceeds the requested amount.
func HumanToRaw(amount decimal.Decimal, decimals int) (*big.Int, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return nil, err
	}
	return amount.Shift(int32(decimals)).Truncate(0).BigInt(), nil
}

// FormatAmount renders amount with exactly places fractional digits,
// rounding half away from zero.
func FormatAmount(amount decimal.Decimal, places int32) string {
	return amount.StringFixed(places)
}

// FormatBigInt converts a raw balance to a human-readable string without
// trailing zeros, considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals int) (string, error) {
	human, err := RawToHuman(amount, decimals)
	if err != nil {
		return "", err
	}
	return human.String(), nil
}
