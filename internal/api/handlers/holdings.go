package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/validation"
)

// HoldingHandler handles holding endpoints.
type HoldingHandler struct {
	holdingService *service.HoldingService
}

// NewHoldingHandler creates a new HoldingHandler
func NewHoldingHandler(holdingService *service.HoldingService) *HoldingHandler {
	return &HoldingHandler{
		holdingService: holdingService,
	}
}

// HoldingsPerAccount handles GET requests for the valued holdings of an account.
// The optional fundCode query parameter narrows the list to one fund.
//
// Endpoint: GET /api/account/{uuid}/holding
// Response: 200 OK with array of HoldingPosition
// Error: 400 Bad Request if fundCode is malformed
// Error: 404 Not Found if the account does not exist
func (h *HoldingHandler) HoldingsPerAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")
	fundCode := r.URL.Query().Get("fundCode")
	if fundCode != "" {
		if err := validation.ValidateFundCode(fundCode); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
			return
		}
	}

	holdings, err := h.holdingService.ListHoldings(r.Context(), accountID, fundCode)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveHoldings.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// GetHolding handles GET requests for one valued holding.
//
// Endpoint: GET /api/holding/{uuid}
// Response: 200 OK with HoldingPosition
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) GetHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	holding, err := h.holdingService.GetHolding(r.Context(), holdingID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveHolding.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// CreateHolding handles POST requests seeding a holding bought outside the system.
// The seed is recorded as a confirmed buy at the latest known NAV.
//
// Endpoint: POST /api/holding
// Request Body: CreateHoldingRequest
// Response: 201 Created with the seeding Transaction
// Error: 400 Bad Request if validation fails, the holding exists or no NAV is known
// Error: 404 Not Found if the account does not exist
func (h *HoldingHandler) CreateHolding(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	transaction, err := h.holdingService.CreateHolding(r.Context(), service.HoldingSeed{
		AccountID:    req.AccountID,
		FundCode:     req.FundCode,
		TotalAmount:  req.TotalAmount,
		ProfitAmount: req.ProfitAmount,
		Remark:       req.Remark,
	})
	if err != nil {
		respondServiceError(w, r, err, "failed to create holding")
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}

// UpdateHolding handles PUT requests that overwrite a holding's balances.
//
// Endpoint: PUT /api/holding/{uuid}
// Request Body: UpdateHoldingRequest (totalAmount, totalShares)
// Response: 200 OK with HoldingPosition
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the holding does not exist
// Error: 409 Conflict if the holding changed concurrently
func (h *HoldingHandler) UpdateHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateHoldingRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateHolding(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	holding, err := h.holdingService.UpdateHolding(r.Context(), holdingID, *req.TotalAmount, *req.TotalShares)
	if err != nil {
		respondServiceError(w, r, err, "failed to update holding")
		return
	}

	response.RespondJSON(w, http.StatusOK, holding)
}

// DeleteHolding handles DELETE requests.
//
// Endpoint: DELETE /api/holding/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the holding does not exist
func (h *HoldingHandler) DeleteHolding(w http.ResponseWriter, r *http.Request) {
	holdingID := chi.URLParam(r, "uuid")

	if err := h.holdingService.DeleteHolding(r.Context(), holdingID); err != nil {
		respondServiceError(w, r, err, "failed to delete holding")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
