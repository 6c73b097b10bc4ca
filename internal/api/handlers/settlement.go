package handlers

import (
	"net/http"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
)

// SettlementHandler exposes a manual trigger for the settlement sweep.
type SettlementHandler struct {
	settlementService *service.SettlementService
}

func NewSettlementHandler(settlementService *service.SettlementService) *SettlementHandler {
	return &SettlementHandler{
		settlementService: settlementService,
	}
}

// Run settles every due pending transaction. Rows that fail stay pending and are
// counted in the response; they do not fail the request.
//
// Endpoint: POST /api/settlement/run
// Response: 200 OK with SettlementResult
// Error: 500 Internal Server Error if the pending rows cannot be read
func (h *SettlementHandler) Run(w http.ResponseWriter, r *http.Request) {
	result, err := h.settlementService.Run(r.Context())
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRunSettlement.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
