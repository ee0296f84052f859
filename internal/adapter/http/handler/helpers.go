package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/iho/bridgecheck/internal/adapter/http/dto"
	"github.com/iho/bridgecheck/internal/domain"
)

// writeJSON writes a JSON response.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response.
func writeError(w http.ResponseWriter, status int, message, details string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(dto.ErrorResponse{
		Error:   message,
		Message: details,
	})
}

// mapDomainError maps domain errors to HTTP status codes.
func mapDomainError(err error) int {
	switch {
	case errors.Is(err, domain.ErrAmountRequired),
		errors.Is(err, domain.ErrInvalidAmountFormat),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrTooManyDecimals),
		errors.Is(err, domain.ErrInvalidMantissa),
		errors.Is(err, domain.ErrInvalidDecimals),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrInvalidToken),
		errors.Is(err, domain.ErrInvalidChainID):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrTokenNotSupported):
		return http.StatusNotFound
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, domain.ErrInvalidLimits):
		return http.StatusBadGateway
	case errors.Is(err, domain.ErrStatusUnavailable),
		errors.Is(err, domain.ErrPriceUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
