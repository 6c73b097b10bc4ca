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

// TransactionHandler handles HTTP requests for transaction endpoints.
// It serves as the HTTP layer adapter, parsing requests and delegating
// business logic to the transactionService.
type TransactionHandler struct {
	transactionService *service.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler with the provided service dependency.
func NewTransactionHandler(transactionService *service.TransactionService) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
	}
}

// TransactionsPerAccount handles GET requests to retrieve the transactions of an account,
// newest first. The optional fundCode query parameter narrows the list to one fund.
//
// Endpoint: GET /api/account/{uuid}/transaction
// Response: 200 OK with array of Transaction
// Error: 400 Bad Request if fundCode is malformed
// Error: 404 Not Found if the account does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) TransactionsPerAccount(w http.ResponseWriter, r *http.Request) {
	accountID := chi.URLParam(r, "uuid")
	fundCode := r.URL.Query().Get("fundCode")
	if fundCode != "" {
		if err := validation.ValidateFundCode(fundCode); err != nil {
			response.RespondError(w, http.StatusBadRequest, "invalid fund code", err.Error())
			return
		}
	}

	transactions, err := h.transactionService.ListTransactions(r.Context(), accountID, fundCode)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transactions)
}

// GetTransaction handles GET requests to retrieve a single transaction by ID.
//
// Endpoint: GET /api/transaction/{uuid}
// Response: 200 OK with Transaction
// Error: 400 Bad Request if transaction ID is invalid (validated by middleware)
// Error: 404 Not Found if transaction not found
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	transactionID := chi.URLParam(r, "uuid")

	transaction, err := h.transactionService.GetTransaction(r.Context(), transactionID)
	if err != nil {
		respondServiceError(w, r, err, apperrors.ErrFailedToRetrieveTransactions.Error())
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction)
}

// CreateTransaction handles POST requests to record a buy or sell.
// A trade whose confirmation date has arrived is confirmed immediately; otherwise it is
// stored as pending for the settlement sweep.
//
// Endpoint: POST /api/transaction
// Request Body: CreateTransactionRequest (tradeDate + isAfterCutoff, or tradeTime)
// Response: 201 Created with Transaction
// Error: 400 Bad Request for validation, amount, NAV or insufficient holding errors
// Error: 404 Not Found if the account, or for a sell the holding, does not exist
// Error: 409 Conflict if the holding changed concurrently
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		response.RespondError(w, http.StatusBadRequest, "validation failed", err.Error())
		return
	}

	trade := service.TradeRequest{
		AccountID:  req.AccountID,
		FundCode:   req.FundCode,
		TradeType:  model.TradeType(req.TradeType),
		Amount:     req.Amount,
		FeePercent: req.FeePercent,
		Remark:     req.Remark,
	}

	var transaction model.Transaction
	if req.TradeTime != "" {
		tradeTime, _ := validation.ParseTradeTime(req.TradeTime)
		transaction, err = h.transactionService.CreateTransactionAt(r.Context(), trade, tradeTime)
	} else {
		trade.TradeDate, _ = validation.ParseDate(req.TradeDate)
		trade.AfterCutoff = req.IsAfterCutoff
		transaction, err = h.transactionService.CreateTransaction(r.Context(), trade)
	}
	if err != nil {
		respondServiceError(w, r, err, "failed to create transaction")
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction)
}
