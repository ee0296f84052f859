package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// ValidationReport is the outcome of checking one proposed bridge transfer.
type ValidationReport struct {
	ID                   string
	Token                string
	Amount               decimal.Decimal
	AmountUSD            decimal.Decimal
	WalletBalance        decimal.Decimal
	PriceUSD             decimal.Decimal
	Limits               TransferLimits
	RemainingDailyUSD    decimal.Decimal
	RemainingDailyTokens decimal.Decimal
	Fee                  *FeeEstimate
	Violations           []Violation
	CheckedAt            time.Time
}

// NewValidationReport runs the validator and captures the figures it used.
func NewValidationReport(id, token string, amount decimal.Decimal, tc TransferContext, checkedAt time.Time) *ValidationReport {
	return &ValidationReport{
		ID:                   id,
		Token:                token,
		Amount:               amount,
		AmountUSD:            tc.AmountUSD(amount),
		WalletBalance:        tc.WalletBalance,
		PriceUSD:             tc.TokenPriceUSD,
		Limits:               tc.Limits,
		RemainingDailyUSD:    tc.Limits.RemainingDailyUSD(),
		RemainingDailyTokens: tc.RemainingDailyTokens(),
		Violations:           ValidateTransfer(amount, tc),
		CheckedAt:            checkedAt,
	}
}

// Valid reports whether the transfer passed every rule.
func (r *ValidationReport) Valid() bool {
	return len(r.Violations) == 0
}

// Messages renders every violation for display.
func (r *ValidationReport) Messages() []string {
	msgs := make([]string, len(r.Violations))
	for i, v := range r.Violations {
		msgs[i] = v.Message(r.Token)
	}
	return msgs
}

// StatusReport describes the current bridge capacity for a token.
type StatusReport struct {
	Token                string
	Limits               TransferLimits
	PriceUSD             decimal.Decimal
	RemainingDailyUSD    decimal.Decimal
	RemainingDailyTokens decimal.Decimal
	SingleLimitTokens    decimal.Decimal
	ResetAt              time.Time
	FetchedAt            time.Time
}

// NewStatusReport derives the capacity figures for status at price.
func NewStatusReport(status *BridgeStatus, price decimal.Decimal) *StatusReport {
	tc := TransferContext{TokenPriceUSD: price, Limits: status.Limits}

	return &StatusReport{
		Token:                status.Token,
		Limits:               status.Limits,
		PriceUSD:             price,
		RemainingDailyUSD:    status.Limits.RemainingDailyUSD(),
		RemainingDailyTokens: tc.RemainingDailyTokens(),
		SingleLimitTokens:    tc.SingleLimitTokens(),
		ResetAt:              status.Limits.ResetAt(),
		FetchedAt:            status.FetchedAt,
	}
}
