package domain

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var tokenRegex = regexp.MustCompile(`^[A-Z0-9]{1,16}$`)

// NormalizeToken upper-cases and validates a token symbol.
func NormalizeToken(token string) (string, error) {
	token = strings.ToUpper(strings.TrimSpace(token))

	if !tokenRegex.MatchString(token) {
		return "", fmt.Errorf("%w: %q", ErrInvalidToken, token)
	}

	return token, nil
}

// ValidateChainID checks a destination chain id.
func ValidateChainID(chainID int64) error {
	if chainID <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidChainID, chainID)
	}
	return nil
}

// ValidateLimits checks that a status snapshot is usable.
func ValidateLimits(l TransferLimits) error {
	if l.MaxSingleTransactionLimitUSD.IsNegative() {
		return fmt.Errorf("%w: negative single transaction limit", ErrInvalidLimits)
	}

	if l.MaxDailyLimitUSD.IsNegative() {
		return fmt.Errorf("%w: negative daily limit", ErrInvalidLimits)
	}

	if l.TotalTransferredLast24HourUSD.IsNegative() {
		return fmt.Errorf("%w: negative daily usage", ErrInvalidLimits)
	}

	return nil
}

// ValidatePrice checks a token price quote.
func ValidatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return fmt.Errorf("%w: negative price %s", ErrPriceUnavailable, price)
	}
	return nil
}
