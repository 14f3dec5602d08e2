package utils

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	// ErrUnknownUnit is returned for a unit name missing from the unit table.
	ErrUnknownUnit = errors.New("unknown unit")
	// ErrMalformedAmount is returned for amounts that are not non-negative decimals.
	ErrMalformedAmount = errors.New("malformed amount")
)

// plainDecimal accepts digits with at most one dot. Signs and exponents are rejected.
var plainDecimal = regexp.MustCompile(`^[0-9]*\.?[0-9]*$`) //nolint:gochecknoglobals // compiled once

const maxUint256Bits = 256

// unitDecimals maps every accepted unit name to its power of ten relative to wei.
var unitDecimals = map[string]int32{ //nolint:gochecknoglobals // unit table
	"wei": 0,

	"kwei":       3,
	"babbage":    3,
	"femtoether": 3,

	"mwei":      6,
	"lovelace":  6,
	"picoether": 6,

	"gwei":      9,
	"shannon":   9,
	"nano":      9,
	"nanoether": 9,

	"szabo":      12,
	"micro":      12,
	"microether": 12,
	"twei":       12,

	"finney":     15,
	"milli":      15,
	"milliether": 15,
	"pwei":       15,

	"ether": 18,
	"eth":   18,
}

// UnitDecimals returns the number of decimals of a unit name. Lookup is case-insensitive.
func UnitDecimals(unit string) (int32, error) {
	decimals, ok := unitDecimals[strings.ToLower(strings.TrimSpace(unit))]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownUnit, unit)
	}
	return decimals, nil
}

// ParseUnits converts a decimal amount expressed in unit into wei.
// Example: amount="1.5", unit="gwei" => 1500000000
// The conversion is exact: amounts with more fractional digits than the unit allows are rejected.
func ParseUnits(amount, unit string) (*big.Int, error) {
	decimals, err := UnitDecimals(unit)
	if err != nil {
		return nil, err
	}

	trimmed := strings.TrimSpace(amount)
	if trimmed == "" {
		return nil, fmt.Errorf("%w: empty amount", ErrMalformedAmount)
	}
	if !plainDecimal.MatchString(trimmed) || !strings.ContainsAny(trimmed, "0123456789") {
		return nil, fmt.Errorf("%w: %q is not a plain decimal number", ErrMalformedAmount, amount)
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrMalformedAmount, amount, err)
	}

	wei := value.Shift(decimals)
	if !wei.IsInteger() {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits for unit %s", ErrMalformedAmount, amount, decimals, unit)
	}
	result := wei.BigInt()
	if result.BitLen() > maxUint256Bits {
		return nil, fmt.Errorf("%w: %q %s does not fit in uint256", ErrMalformedAmount, amount, unit)
	}
	return result, nil
}

// FormatBigInt converts a big.Int value to a human-readable string,
// considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
func FormatBigInt(amount *big.Int, decimals uint8) string {
	if amount == nil {
		return "0"
	}
	if decimals == 0 {
		return amount.String()
	}
	return decimal.NewFromBigInt(amount, -int32(decimals)).String()
}

// FormatUnits renders a wei amount in the given unit.
func FormatUnits(amount *big.Int, unit string) (string, error) {
	decimals, err := UnitDecimals(unit)
	if err != nil {
		return "", err
	}
	return FormatBigInt(amount, uint8(decimals)), nil
}
