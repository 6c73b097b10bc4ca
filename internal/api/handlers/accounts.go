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

// AccountHandler handles account-related HTTP requests
type AccountHandler struct {
	accountService *service.AccountService
}

// NewAccountHandler creates a new AccountHandler
func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
	}
}

// Accounts handles GET requests listing every account.
//
// Endpoint: GET /api/account
// Response: 200 OK with array of Account
// Error: 500 Internal Server Error if retrieval fails
func (h *AccountHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountService.ListAccounts(r.Context())
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveAccounts.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, accounts)
}

// CreateAccount handles POST requests to create an account.
//
// Endpoint: POST /api/account
// Request Body: CreateAccountRequest (name, remark, defaultBuyFeePercent)
// Response: 201 Created with Account
// Error: 400 Bad Request if validation fails or request body is invalid
func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateAccount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	account, err := h.accountService.CreateAccount(r.Context(), req.Name, req.Remark, req.DefaultBuyFeePercent)
	if err != nil {
		respondServiceError(w, r, err, "failed to create account")
		return
	}

	response.RespondJSON(w, http.StatusCreated, account)
}

// GetAccount handles GET requests for one account with its valued holdings.
//
// Endpoint: GET /api/account/{uuid}
// Response: 200 OK with AccountDetail
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	detail, err := h.accountService.GetAccountDetail(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveAccount.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, detail)
}

// UpdateAccount handles PUT requests. Omitted fields keep their value.
//
// Endpoint: PUT /api/account/{uuid}
// Request Body: UpdateAccountRequest (all fields optional)
// Response: 200 OK with Account
// Error: 400 Bad Request if validation fails
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) UpdateAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.UpdateAccountRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateUpdateAccount(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	account, err := h.accountService.UpdateAccount(r.Context(), accountID, service.AccountUpdate{
		Name:                 req.Name,
		Remark:               req.Remark,
		DefaultBuyFeePercent: req.DefaultBuyFeePercent,
	})
	if err != nil {
		respondServiceError(w, r, err, "failed to update account")
		return
	}

	response.RespondJSON(w, http.StatusOK, account)
}

// DeleteAccount handles DELETE requests. Holdings, transactions and conversions
// of the account are removed with it.
//
// Endpoint: DELETE /api/account/{uuid}
// Response: 204 No Content
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	if err := h.accountService.DeleteAccount(r.Context(), accountID); err != nil {
		respondServiceError(w, r, err, "failed to delete account")
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}

// AccountSummary handles GET requests for the valuation totals of one account.
//
// Endpoint: GET /api/account/{uuid}/summary
// Response: 200 OK with AccountSummary
// Error: 404 Not Found if the account does not exist
func (h *AccountHandler) AccountSummary(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")

	summary, err := h.accountService.GetAccountSummary(r.Context(), accountID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveAccount.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, summary)
}
