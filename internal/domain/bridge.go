package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DailyLimitWindow is the length of the rolling bridge limit window.
const DailyLimitWindow = 24 * time.Hour

// TransferLimits is a snapshot of the bridge limits for a token.
type TransferLimits struct {
	MaxSingleTransactionLimitUSD  decimal.Decimal
	MaxDailyLimitUSD              decimal.Decimal
	TotalTransferredLast24HourUSD decimal.Decimal
	DailyLimitResetTimestamp      int64
}

// RemainingDailyUSD returns how much USD value can still be bridged in the current window.
func (l TransferLimits) RemainingDailyUSD() decimal.Decimal {
	return l.MaxDailyLimitUSD.Sub(l.TotalTransferredLast24HourUSD)
}

// ResetAt returns the instant the daily window rolls over.
func (l TransferLimits) ResetAt() time.Time {
	return time.Unix(l.DailyLimitResetTimestamp, 0).UTC().Add(DailyLimitWindow)
}

// TransferContext carries everything the validator needs besides the amount.
type TransferContext struct {
	WalletBalance decimal.Decimal
	TokenPriceUSD decimal.Decimal
	Limits        TransferLimits
}

// AmountUSD converts a token amount into USD at the context price.
func (c TransferContext) AmountUSD(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(c.TokenPriceUSD)
}

// RemainingDailyTokens converts the remaining daily capacity into tokens.
// A zero or negative price yields zero.
func (c TransferContext) RemainingDailyTokens() decimal.Decimal {
	return usdToTokens(c.Limits.RemainingDailyUSD(), c.TokenPriceUSD)
}

// SingleLimitTokens converts the single-transaction ceiling into tokens.
func (c TransferContext) SingleLimitTokens() decimal.Decimal {
	return usdToTokens(c.Limits.MaxSingleTransactionLimitUSD, c.TokenPriceUSD)
}

func usdToTokens(usd, price decimal.Decimal) decimal.Decimal {
	if !price.IsPositive() {
		return decimal.Zero
	}
	return usd.Div(price)
}

// ValidateTransfer reports every limit the amount violates. An empty result means the
// transfer is acceptable. All checks run regardless of earlier failures.
func ValidateTransfer(amount decimal.Decimal, tc TransferContext) []Violation {
	amountUSD := tc.AmountUSD(amount)
	remainingUSD := tc.Limits.RemainingDailyUSD()

	violations := make([]Violation, 0, 3)

	if amountUSD.GreaterThan(tc.Limits.MaxSingleTransactionLimitUSD) {
		violations = append(violations, Violation{
			Kind:           ViolationSingleLimitExceeded,
			ReadableTokens: tc.SingleLimitTokens(),
			ReadableUSD:    tc.Limits.MaxSingleTransactionLimitUSD,
		})
	}

	if amountUSD.GreaterThan(remainingUSD) {
		violations = append(violations, Violation{
			Kind:           ViolationDailyLimitExceeded,
			ReadableTokens: tc.RemainingDailyTokens(),
			ReadableUSD:    remainingUSD,
			ResetAt:        tc.Limits.ResetAt(),
		})
	}

	if tc.WalletBalance.LessThan(amount) {
		violations = append(violations, Violation{
			Kind:           ViolationInsufficientBalance,
			ReadableTokens: tc.WalletBalance,
			ReadableUSD:    tc.AmountUSD(tc.WalletBalance),
		})
	}

	return violations
}

// FeeEstimate is the fee quoted for bridging, denominated in the source chain's gas token.
type FeeEstimate struct {
	Amount decimal.Decimal
	Symbol string
}

// BridgeStatus is a limits snapshot as fetched from the status source.
type BridgeStatus struct {
	Token     string
	Limits    TransferLimits
	FetchedAt time.Time
}
