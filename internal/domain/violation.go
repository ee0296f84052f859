package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ViolationKind identifies which bridge rule a transfer breaks.
type ViolationKind string

const (
	ViolationInsufficientBalance ViolationKind = "insufficient_balance"
	ViolationSingleLimitExceeded ViolationKind = "single_limit_exceeded"
	ViolationDailyLimitExceeded  ViolationKind = "daily_limit_exceeded"
)

// Violation is one failed bridge rule with the figures needed to explain it.
//
// For SingleLimitExceeded the readable amounts are the per-transaction ceiling.
// For DailyLimitExceeded they are the remaining daily capacity and ResetAt is set.
// For InsufficientBalance they are the wallet balance.
type Violation struct {
	Kind           ViolationKind
	ReadableTokens decimal.Decimal
	ReadableUSD    decimal.Decimal
	ResetAt        time.Time
}

// Message renders the violation for display.
func (v Violation) Message(symbol string) string {
	switch v.Kind {
	case ViolationSingleLimitExceeded:
		return fmt.Sprintf("Amount exceeds the single transaction limit of %s (%s)",
			FormatTokens(v.ReadableTokens, symbol), FormatUSD(v.ReadableUSD))
	case ViolationDailyLimitExceeded:
		return fmt.Sprintf("Amount exceeds the remaining daily limit of %s (%s). The limit resets at %s",
			FormatTokens(v.ReadableTokens, symbol), FormatUSD(v.ReadableUSD), v.ResetAt.Format(time.RFC1123))
	case ViolationInsufficientBalance:
		return fmt.Sprintf("Insufficient %s balance, available %s", symbol, FormatTokens(v.ReadableTokens, symbol))
	default:
		return string(v.Kind)
	}
}

// HasViolation reports whether kind is present in violations.
func HasViolation(violations []Violation, kind ViolationKind) bool {
	for _, v := range violations {
		if v.Kind == kind {
			return true
		}
	}
	return false
}
