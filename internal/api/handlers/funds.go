package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/request"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/api/response"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/apperrors"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/model"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/service"
	"github.com/ndewijer/Fund-Holdings-Backend/internal/validation"
)

// FundHandler handles fund market data endpoints.
type FundHandler struct {
	fundService *service.FundService
}

// NewFundHandler creates a new FundHandler
func NewFundHandler(fundService *service.FundService) *FundHandler {
	return &FundHandler{
		fundService: fundService,
	}
}

// fundCodeParam reads and validates the {code} URL parameter. It writes a 400 and
// returns false when the code is malformed.
func fundCodeParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	code := chi.URLParam(r, "code")
	if err := validation.ValidateFundCode(code); err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
		return "", false
	}
	return code, true
}

// Nav handles GET requests for a fund's NAV. With a date query parameter the NAV
// published for that date is returned, fetching it from the provider when it is not
// stored; without one the latest known NAV is returned.
//
// Endpoint: GET /api/fund/{code}/nav?date=YYYY-MM-DD
// Response: 200 OK with FundNav
// Error: 400 Bad Request if the code or date is malformed, or no NAV exists for the date
// Error: 404 Not Found if no NAV is known for the fund
func (h *FundHandler) Nav(w http.ResponseWriter, r *http.Request) {
	code, ok := fundCodeParam(w, r)
	if !ok {
		return
	}

	raw := r.URL.Query().Get("date")
	if raw == "" {
		latest, err := h.fundService.LatestNav(r.Context(), code)
		if err != nil {
			respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveNav.Error())
			return
		}
		response.RespondJSON(w, http.StatusOK, latest)
		return
	}

	date, err := validation.ParseDate(raw)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid date", err.Error())
		return
	}

	nav, err := h.fundService.ResolveNavByDate(r.Context(), code, date)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveNav.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, model.FundNav{FundCode: code, Date: date, Nav: nav})
}

// ImportNav handles POST requests storing a published NAV, replacing any stored value
// for the same date.
//
// Endpoint: POST /api/fund/{code}/nav
// Request Body: ImportNavRequest (date, nav)
// Response: 201 Created with FundNav
// Error: 400 Bad Request if validation fails
func (h *FundHandler) ImportNav(w http.ResponseWriter, r *http.Request) {
	code, ok := fundCodeParam(w, r)
	if !ok {
		return
	}

	req, err := parseJSON[request.ImportNavRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateImportNav(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	date, _ := validation.ParseDate(req.Date)
	nav, err := h.fundService.ImportNav(r.Context(), code, date, req.Nav)
	if err != nil {
		respondServiceError(w, r, err, "failed to import nav")
		return
	}

	response.RespondJSON(w, http.StatusCreated, nav)
}

// Estimate handles GET requests for the intraday estimate of a fund.
//
// Endpoint: GET /api/fund/{code}/estimate
// Response: 200 OK with FundEstimate
// Error: 404 Not Found if the provider does not know the fund
func (h *FundHandler) Estimate(w http.ResponseWriter, r *http.Request) {
	code, ok := fundCodeParam(w, r)
	if !ok {
		return
	}

	estimate, err := h.fundService.RealtimeEstimate(r.Context(), code)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveEstimate.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, estimate)
}
