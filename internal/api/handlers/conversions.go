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

// ConversionHandler handles fund-to-fund conversion endpoints.
type ConversionHandler struct {
	conversionService *service.ConversionService
}

// NewConversionHandler creates a new ConversionHandler
func NewConversionHandler(conversionService *service.ConversionService) *ConversionHandler {
	return &ConversionHandler{
		conversionService: conversionService,
	}
}

// ConversionsPerAccount handles GET requests listing the conversions of an account
// with both legs.
//
// Endpoint: GET /api/account/{uuid}/conversion
// Response: 200 OK with array of ConversionResponse
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if a stored conversion is missing a leg
func (h *ConversionHandler) ConversionsPerAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	conversions, err := h.conversionService.ListConversions(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveConversions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, conversions)
}

// CreateConversion handles POST requests. Both legs are stored together or not at all.
//
// Endpoint: POST /api/conversion
// Request Body: CreateConversionRequest
// Response: 201 Created with ConversionResponse
// Error: 400 Bad Request if validation fails or either leg is rejected
// Error: 404 Not Found if the account or the source holding does not exist
func (h *ConversionHandler) CreateConversion(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateConversionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateConversion(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	tradeDate, _ := validation.ParseDate(req.TradeDate)
	conversion, err := h.conversionService.CreateConversion(r.Context(), service.ConversionRequest{
		AccountID:      req.AccountID,
		FromFundCode:   req.FromFundCode,
		FromAmount:     req.FromAmount,
		FromFeePercent: req.FromFeePercent,
		ToFundCode:     req.ToFundCode,
		ToAmount:       req.ToAmount,
		ToFeePercent:   req.ToFeePercent,
		TradeDate:      tradeDate,
		AfterCutoff:    req.IsAfterCutoff,
		Remark:         req.Remark,
	})
	if err != nil {
		respondServiceError(w, r, err, "failed to create conversion")
		return
	}

	response.RespondJSON(w, http.StatusCreated, conversion)
}
