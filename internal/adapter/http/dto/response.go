package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bridgecheck/internal/domain"
)

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// LimitsResponse represents bridge limits in API responses.
type LimitsResponse struct {
	MaxSingleTransactionLimitUSD  decimal.Decimal `json:"max_single_transaction_limit_usd"`
	MaxDailyLimitUSD              decimal.Decimal `json:"max_daily_limit_usd"`
	TotalTransferredLast24HourUSD decimal.Decimal `json:"total_transferred_last_24_hour_usd"`
	DailyLimitResetTimestamp      int64           `json:"daily_limit_reset_timestamp"`
}

// LimitsFromDomain converts domain limits to response.
func LimitsFromDomain(l domain.TransferLimits) LimitsResponse {
	return LimitsResponse{
		MaxSingleTransactionLimitUSD:  l.MaxSingleTransactionLimitUSD,
		MaxDailyLimitUSD:              l.MaxDailyLimitUSD,
		TotalTransferredLast24HourUSD: l.TotalTransferredLast24HourUSD,
		DailyLimitResetTimestamp:      l.DailyLimitResetTimestamp,
	}
}

// ViolationResponse represents one failed rule with its display message.
type ViolationResponse struct {
	Kind           domain.ViolationKind `json:"kind"`
	ReadableTokens decimal.Decimal      `json:"readable_tokens"`
	ReadableUSD    decimal.Decimal      `json:"readable_usd"`
	ResetAt        *time.Time           `json:"reset_at,omitempty"`
	Message        string               `json:"message"`
}

// ViolationFromDomain converts a domain violation to response.
func ViolationFromDomain(v domain.Violation, symbol string) ViolationResponse {
	resp := ViolationResponse{
		Kind:           v.Kind,
		ReadableTokens: v.ReadableTokens,
		ReadableUSD:    v.ReadableUSD,
		Message:        v.Message(symbol),
	}
	if !v.ResetAt.IsZero() {
		resetAt := v.ResetAt
		resp.ResetAt = &resetAt
	}
	return resp
}

// FeeResponse represents a bridge fee estimate.
type FeeResponse struct {
	Amount decimal.Decimal `json:"amount"`
	Symbol string          `json:"symbol"`
}

// ValidationResponse represents a validation report in API responses.
type ValidationResponse struct {
	ID                   string              `json:"id"`
	Token                string              `json:"token"`
	Valid                bool                `json:"valid"`
	Amount               decimal.Decimal     `json:"amount"`
	AmountUSD            decimal.Decimal     `json:"amount_usd"`
	WalletBalance        decimal.Decimal     `json:"wallet_balance"`
	PriceUSD             decimal.Decimal     `json:"price_usd"`
	RemainingDailyUSD    decimal.Decimal     `json:"remaining_daily_usd"`
	RemainingDailyTokens decimal.Decimal     `json:"remaining_daily_tokens"`
	Limits               LimitsResponse      `json:"limits"`
	Fee                  *FeeResponse        `json:"fee,omitempty"`
	Violations           []ViolationResponse `json:"violations"`
	CheckedAt            time.Time           `json:"checked_at"`
}

// ValidationFromDomain converts a domain report to response.
func ValidationFromDomain(r *domain.ValidationReport) *ValidationResponse {
	violations := make([]ViolationResponse, len(r.Violations))
	for i, v := range r.Violations {
		violations[i] = ViolationFromDomain(v, r.Token)
	}

	resp := &ValidationResponse{
		ID:                   r.ID,
		Token:                r.Token,
		Valid:                r.Valid(),
		Amount:               r.Amount,
		AmountUSD:            r.AmountUSD,
		WalletBalance:        r.WalletBalance,
		PriceUSD:             r.PriceUSD,
		RemainingDailyUSD:    r.RemainingDailyUSD,
		RemainingDailyTokens: r.RemainingDailyTokens,
		Limits:               LimitsFromDomain(r.Limits),
		Violations:           violations,
		CheckedAt:            r.CheckedAt,
	}

	if r.Fee != nil {
		resp.Fee = &FeeResponse{Amount: r.Fee.Amount, Symbol: r.Fee.Symbol}
	}

	return resp
}

// StatusResponse represents the bridge capacity for a token.
type StatusResponse struct {
	Token                string          `json:"token"`
	PriceUSD             decimal.Decimal `json:"price_usd"`
	Limits               LimitsResponse  `json:"limits"`
	RemainingDailyUSD    decimal.Decimal `json:"remaining_daily_usd"`
	RemainingDailyTokens decimal.Decimal `json:"remaining_daily_tokens"`
	SingleLimitTokens    decimal.Decimal `json:"single_limit_tokens"`
	ResetAt              time.Time       `json:"reset_at"`
	FetchedAt            time.Time       `json:"fetched_at"`
}

// StatusFromDomain converts a domain status report to response.
func StatusFromDomain(s *domain.StatusReport) *StatusResponse {
	return &StatusResponse{
		Token:                s.Token,
		PriceUSD:             s.PriceUSD,
		Limits:               LimitsFromDomain(s.Limits),
		RemainingDailyUSD:    s.RemainingDailyUSD,
		RemainingDailyTokens: s.RemainingDailyTokens,
		SingleLimitTokens:    s.SingleLimitTokens,
		ResetAt:              s.ResetAt,
		FetchedAt:            s.FetchedAt,
	}
}
