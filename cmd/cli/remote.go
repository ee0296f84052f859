package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/spf13/cobra"

	"github.com/iho/bridgecheck/internal/adapter/http/dto"
	"github.com/iho/bridgecheck/internal/domain"
)

func remoteValidateCmd(opts *cliOptions) *cobra.Command {
	req := &dto.ValidateTransferRequest{}

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a transfer against live bridge limits",
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.ValidationResponse
			if err := opts.do(http.MethodPost, "/api/v1/bridge/validate", req, &resp); err != nil {
				return err
			}

			printRemoteReport(cmd.OutOrStdout(), &resp)

			if !resp.Valid {
				return errViolations
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&req.Token, "token", "XVS", "Token symbol")
	f.StringVar(&req.Amount, "amount", "", "Amount to bridge in tokens")
	f.StringVar(&req.WalletBalanceMantissa, "balance-mantissa", "0", "Wallet balance in the token's smallest unit")
	f.Int32Var(&req.TokenDecimals, "decimals", 18, "Token decimals")
	f.Int64Var(&req.DestChainID, "dest-chain", 0, "Destination chain ID for a fee estimate")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func remoteStatusCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status TOKEN",
		Short: "Show current bridge capacity for a token",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var resp dto.StatusResponse
			if err := opts.do(http.MethodGet, "/api/v1/bridge/status/"+url.PathEscape(args[0]), nil, &resp); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Token:           %s\n", resp.Token)
			fmt.Fprintf(w, "Price:           %s\n", domain.FormatUSD(resp.PriceUSD))
			fmt.Fprintf(w, "Single limit:    %s (%s)\n", domain.FormatTokens(resp.SingleLimitTokens, resp.Token), domain.FormatUSD(resp.Limits.MaxSingleTransactionLimitUSD))
			fmt.Fprintf(w, "Daily remaining: %s (%s)\n", domain.FormatTokens(resp.RemainingDailyTokens, resp.Token), domain.FormatUSD(resp.RemainingDailyUSD))
			fmt.Fprintf(w, "Resets at:       %s\n", resp.ResetAt.Format("2006-01-02 15:04:05 MST"))
			return nil
		},
	}
}

// do sends a JSON request to the API and decodes a 200 response into out.
func (o *cliOptions) do(method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequest(method, strings.TrimRight(o.baseURL, "/")+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	client := &http.Client{Timeout: o.timeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr dto.ErrorResponse
		if json.Unmarshal(data, &apiErr) == nil && apiErr.Error != "" {
			if apiErr.Message != "" {
				return fmt.Errorf("%s (status %d): %s", apiErr.Error, resp.StatusCode, apiErr.Message)
			}
			return fmt.Errorf("%s (status %d)", apiErr.Error, resp.StatusCode)
		}
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(data)))
	}

	return json.Unmarshal(data, out)
}

func printRemoteReport(w io.Writer, r *dto.ValidationResponse) {
	fmt.Fprintf(w, "Report:          %s\n", r.ID)
	fmt.Fprintf(w, "Amount:          %s (%s)\n", domain.FormatTokens(r.Amount, r.Token), domain.FormatUSD(r.AmountUSD))
	fmt.Fprintf(w, "Daily remaining: %s (%s)\n", domain.FormatTokens(r.RemainingDailyTokens, r.Token), domain.FormatUSD(r.RemainingDailyUSD))
	if r.Fee != nil {
		fmt.Fprintf(w, "Fee:             %s\n", domain.FormatTokens(r.Fee.Amount, r.Fee.Symbol))
	}

	if r.Valid {
		fmt.Fprintln(w, "Transfer is valid")
		return
	}

	fmt.Fprintln(w, "Transfer is NOT valid:")
	for _, v := range r.Violations {
		fmt.Fprintf(w, "  - %s\n", v.Message)
	}
}
