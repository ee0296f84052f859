package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/iho/bridgecheck/internal/adapter/http/dto"
	"github.com/iho/bridgecheck/internal/domain"
	"github.com/iho/bridgecheck/internal/usecase"
)

// BridgeService defines the behavior needed by BridgeHandler.
type BridgeService interface {
	ValidateTransfer(ctx context.Context, input usecase.ValidateTransferInput) (*domain.ValidationReport, error)
	GetStatus(ctx context.Context, token string) (*domain.StatusReport, error)
}

// BridgeHandler handles bridge validation HTTP requests.
type BridgeHandler struct {
	bridgeUC BridgeService
}

// NewBridgeHandler creates a new BridgeHandler.
func NewBridgeHandler(bridgeUC BridgeService) *BridgeHandler {
	return &BridgeHandler{bridgeUC: bridgeUC}
}

// Validate checks a proposed transfer. A report with violations is still a 200.
func (h *BridgeHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	report, err := h.bridgeUC.ValidateTransfer(r.Context(), req.ToUseCaseInput())
	if err != nil {
		writeError(w, mapDomainError(err), "failed to validate transfer", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.ValidationFromDomain(report))
}

// Status returns the current bridge capacity for a token.
func (h *BridgeHandler) Status(w http.ResponseWriter, r *http.Request) {
	token := chi.URLParam(r, "token")
	if token == "" {
		writeError(w, http.StatusBadRequest, "missing token", "")
		return
	}

	status, err := h.bridgeUC.GetStatus(r.Context(), token)
	if err != nil {
		writeError(w, mapDomainError(err), "failed to get bridge status", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, dto.StatusFromDomain(status))
}
