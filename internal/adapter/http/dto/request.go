package dto

import "github.com/iho/bridgecheck/internal/usecase"

// ValidateTransferRequest represents a request to validate a bridge transfer.
// Amount is a human-readable token amount; the balance is the raw on-chain mantissa.
type ValidateTransferRequest struct {
	Token                 string `json:"token"`
	Amount                string `json:"amount"`
	WalletBalanceMantissa string `json:"wallet_balance_mantissa"`
	TokenDecimals         int32  `json:"token_decimals"`
	DestChainID           int64  `json:"dest_chain_id,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *ValidateTransferRequest) ToUseCaseInput() usecase.ValidateTransferInput {
	return usecase.ValidateTransferInput{
		Token:                 r.Token,
		Amount:                r.Amount,
		WalletBalanceMantissa: r.WalletBalanceMantissa,
		TokenDecimals:         r.TokenDecimals,
		DestChainID:           r.DestChainID,
	}
}
