package domain

import "errors"

var (
	// Transfer errors
	ErrInvalidAmount = errors.New("amount must be positive")

	// Token errors
	ErrInvalidToken      = errors.New("invalid token symbol")
	ErrTokenNotSupported = errors.New("token is not supported by the bridge")
	ErrInvalidChainID    = errors.New("invalid destination chain id")

	// Upstream data errors
	ErrStatusUnavailable = errors.New("bridge status unavailable")
	ErrPriceUnavailable  = errors.New("token price unavailable")
	ErrFeeUnavailable    = errors.New("bridge fee unavailable")
	ErrInvalidLimits     = errors.New("bridge limits are inconsistent")
)
