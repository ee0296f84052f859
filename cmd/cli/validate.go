package main

import (
	"fmt"
	"io"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/iho/bridgecheck/internal/domain"
)

type offlineInput struct {
	token       string
	amount      string
	balance     string
	price       string
	singleLimit string
	dailyLimit  string
	used        string
	resetTS     int64
	decimals    int32
}

// validateCmd checks a transfer entirely from flags, without any network access.
func validateCmd() *cobra.Command {
	in := &offlineInput{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a transfer offline against the given limits",
		Example: `  bridgecheck validate --amount 50 --balance 100 --price 1 \
    --single-limit 1000 --daily-limit 1000 --used 980 --reset 1700000000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := in.report()
			if err != nil {
				return err
			}

			printReport(cmd.OutOrStdout(), report)

			if !report.Valid() {
				return errViolations
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.token, "token", "XVS", "Token symbol")
	f.StringVar(&in.amount, "amount", "", "Amount to bridge in tokens")
	f.StringVar(&in.balance, "balance", "0", "Wallet balance in tokens")
	f.StringVar(&in.price, "price", "", "Token price in USD")
	f.StringVar(&in.singleLimit, "single-limit", "", "Max single transaction limit in USD")
	f.StringVar(&in.dailyLimit, "daily-limit", "", "Max daily limit in USD")
	f.StringVar(&in.used, "used", "0", "USD already bridged in the current window")
	f.Int64Var(&in.resetTS, "reset", 0, "Unix timestamp the current window started")
	f.Int32Var(&in.decimals, "decimals", 18, "Token decimals")

	for _, name := range []string{"amount", "price", "single-limit", "daily-limit"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func (in *offlineInput) report() (*domain.ValidationReport, error) {
	token, err := domain.NormalizeToken(in.token)
	if err != nil {
		return nil, err
	}

	amount, err := domain.ParseTokenAmount(in.amount, in.decimals)
	if err != nil {
		return nil, fmt.Errorf("amount: %w", err)
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("amount: %w", domain.ErrInvalidAmount)
	}

	balance, err := parseFlagDecimal("balance", in.balance)
	if err != nil {
		return nil, err
	}
	price, err := parseFlagDecimal("price", in.price)
	if err != nil {
		return nil, err
	}

	limits := domain.TransferLimits{DailyLimitResetTimestamp: in.resetTS}
	if limits.MaxSingleTransactionLimitUSD, err = parseFlagDecimal("single-limit", in.singleLimit); err != nil {
		return nil, err
	}
	if limits.MaxDailyLimitUSD, err = parseFlagDecimal("daily-limit", in.dailyLimit); err != nil {
		return nil, err
	}
	if limits.TotalTransferredLast24HourUSD, err = parseFlagDecimal("used", in.used); err != nil {
		return nil, err
	}

	tc := domain.TransferContext{
		WalletBalance: balance,
		TokenPriceUSD: price,
		Limits:        limits,
	}

	return domain.NewValidationReport("offline", token, amount, tc, time.Now().UTC()), nil
}

func parseFlagDecimal(name, value string) (decimal.Decimal, error) {
	d, err := domain.ParseAmount(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%s: %w", name, err)
	}
	return d, nil
}

func printReport(w io.Writer, r *domain.ValidationReport) {
	fmt.Fprintf(w, "Amount:          %s (%s)\n", domain.FormatTokens(r.Amount, r.Token), domain.FormatUSD(r.AmountUSD))
	fmt.Fprintf(w, "Daily remaining: %s (%s)\n", domain.FormatTokens(r.RemainingDailyTokens, r.Token), domain.FormatUSD(r.RemainingDailyUSD))
	if r.Fee != nil {
		fmt.Fprintf(w, "Fee:             %s\n", domain.FormatTokens(r.Fee.Amount, r.Fee.Symbol))
	}

	if r.Valid() {
		fmt.Fprintln(w, "Transfer is valid")
		return
	}

	fmt.Fprintln(w, "Transfer is NOT valid:")
	for _, msg := range r.Messages() {
		fmt.Fprintf(w, "  - %s\n", msg)
	}
}
