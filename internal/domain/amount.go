package domain

import (
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Amount parsing errors
var (
	ErrAmountRequired      = errors.New("amount is required")
	ErrInvalidAmountFormat = errors.New("amount is not a valid decimal number")
	ErrNegativeAmount      = errors.New("amount cannot be negative")
	ErrTooManyDecimals     = errors.New("amount has more decimals than the token supports")
	ErrInvalidMantissa     = errors.New("invalid mantissa")
	ErrInvalidDecimals     = errors.New("invalid token decimals")
)

// MaxTokenDecimals bounds the precision a token can declare.
const MaxTokenDecimals = 36

var amountRegex = regexp.MustCompile(`^(\d+\.?\d*|\.\d+)$`)

// ParseAmount is the presence and format check for user-entered amounts.
// Negative, signed, exponent and non-numeric input is rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrAmountRequired
	}

	if strings.HasPrefix(s, "-") {
		return decimal.Zero, ErrNegativeAmount
	}

	if !amountRegex.MatchString(s) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}

	amount, err := decimal.NewFromString(normalizeAmount(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidAmountFormat, s)
	}

	return amount, nil
}

// ParseTokenAmount parses s and rejects precision the token cannot represent.
func ParseTokenAmount(s string, decimals int32) (decimal.Decimal, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return decimal.Zero, err
	}

	amount, err := ParseAmount(s)
	if err != nil {
		return decimal.Zero, err
	}

	if fractionDigits(strings.TrimSpace(s)) > int(decimals) {
		return decimal.Zero, fmt.Errorf("%w: maximum is %d", ErrTooManyDecimals, decimals)
	}

	return amount, nil
}

// ValidateDecimals checks that decimals is a plausible token precision.
func ValidateDecimals(decimals int32) error {
	if decimals < 0 || decimals > MaxTokenDecimals {
		return fmt.Errorf("%w: %d", ErrInvalidDecimals, decimals)
	}
	return nil
}

// FromMantissa converts an integer amount scaled by 10^decimals into token units.
func FromMantissa(mantissa string, decimals int32) (decimal.Decimal, error) {
	if err := ValidateDecimals(decimals); err != nil {
		return decimal.Zero, err
	}

	value, ok := new(big.Int).SetString(strings.TrimSpace(mantissa), 10)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidMantissa, mantissa)
	}
	if value.Sign() < 0 {
		return decimal.Zero, fmt.Errorf("%w: %q is negative", ErrInvalidMantissa, mantissa)
	}

	return decimal.NewFromBigInt(value, -decimals), nil
}

// ToMantissa scales a token amount to its integer representation, truncating
// precision beyond decimals.
func ToMantissa(amount decimal.Decimal, decimals int32) *big.Int {
	return amount.Shift(decimals).Truncate(0).BigInt()
}

// normalizeAmount turns the partial forms a user can type ("1.", ".5") into canonical ones.
func normalizeAmount(s string) string {
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	return strings.TrimSuffix(s, ".")
}

func fractionDigits(s string) int {
	idx := strings.IndexByte(s, '.')
	if idx < 0 {
		return 0
	}
	return len(s) - idx - 1
}
