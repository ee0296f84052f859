package dto

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/iho/bridgecheck/internal/domain"
)

func TestValidationFromDomainRendersViolations(t *testing.T) {
	resetAt := time.Date(2023, 11, 15, 22, 13, 20, 0, time.UTC)
	report := &domain.ValidationReport{
		ID:     "rep-1",
		Token:  "XVS",
		Amount: decimal.NewFromInt(50),
		Violations: []domain.Violation{
			{
				Kind:           domain.ViolationDailyLimitExceeded,
				ReadableTokens: decimal.NewFromInt(20),
				ReadableUSD:    decimal.NewFromInt(20),
				ResetAt:        resetAt,
			},
			{
				Kind:           domain.ViolationInsufficientBalance,
				ReadableTokens: decimal.NewFromInt(10),
				ReadableUSD:    decimal.NewFromInt(10),
			},
		},
		Fee: &domain.FeeEstimate{Amount: decimal.RequireFromString("0.01"), Symbol: "BNB"},
	}

	resp := ValidationFromDomain(report)

	if resp.Valid {
		t.Fatalf("expected report with violations to be invalid")
	}
	if len(resp.Violations) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(resp.Violations))
	}
	if resp.Violations[0].ResetAt == nil || !resp.Violations[0].ResetAt.Equal(resetAt) {
		t.Fatalf("expected daily violation to carry reset time, got %v", resp.Violations[0].ResetAt)
	}
	if resp.Violations[1].ResetAt != nil {
		t.Fatalf("expected balance violation without reset time")
	}
	if resp.Violations[1].Message != report.Violations[1].Message("XVS") {
		t.Fatalf("unexpected message %q", resp.Violations[1].Message)
	}
	if resp.Fee == nil || resp.Fee.Symbol != "BNB" {
		t.Fatalf("expected fee to be rendered, got %+v", resp.Fee)
	}
}

func TestValidationResponseJSONShape(t *testing.T) {
	resp := ValidationFromDomain(&domain.ValidationReport{
		ID:        "rep-1",
		Token:     "XVS",
		Amount:    decimal.RequireFromString("1.5"),
		AmountUSD: decimal.RequireFromString("3"),
	})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var decoded map[string]any
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if decoded["valid"] != true {
		t.Fatalf("expected valid=true, got %v", decoded["valid"])
	}
	if decoded["amount"] != "1.5" {
		t.Fatalf("expected amount as decimal string, got %#v", decoded["amount"])
	}
	if violations, ok := decoded["violations"].([]any); !ok || len(violations) != 0 {
		t.Fatalf("expected empty violations array, got %#v", decoded["violations"])
	}
	if _, ok := decoded["fee"]; ok {
		t.Fatalf("expected fee to be omitted")
	}
}

func TestStatusFromDomain(t *testing.T) {
	status := &domain.BridgeStatus{
		Token: "XVS",
		Limits: domain.TransferLimits{
			MaxSingleTransactionLimitUSD:  decimal.NewFromInt(1000),
			MaxDailyLimitUSD:              decimal.NewFromInt(5000),
			TotalTransferredLast24HourUSD: decimal.NewFromInt(1000),
			DailyLimitResetTimestamp:      1700000000,
		},
	}

	resp := StatusFromDomain(domain.NewStatusReport(status, decimal.NewFromInt(2)))

	if !resp.RemainingDailyUSD.Equal(decimal.NewFromInt(4000)) {
		t.Fatalf("expected remaining 4000, got %s", resp.RemainingDailyUSD)
	}
	if !resp.RemainingDailyTokens.Equal(decimal.NewFromInt(2000)) {
		t.Fatalf("expected 2000 tokens, got %s", resp.RemainingDailyTokens)
	}
	if !resp.SingleLimitTokens.Equal(decimal.NewFromInt(500)) {
		t.Fatalf("expected 500 single-limit tokens, got %s", resp.SingleLimitTokens)
	}
	if resp.Limits.DailyLimitResetTimestamp != 1700000000 {
		t.Fatalf("unexpected reset timestamp %d", resp.Limits.DailyLimitResetTimestamp)
	}
}
