package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/request"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/api/response"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/apperrors"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/model"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/service"
	"github.com/ndewijer/Investment-Portfolio-Tracker/internal/validation"
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

// Transactions handles GET requests to retrieve all transactions of a portfolio in replay order.
//
// Endpoint: GET /api/portfolio/{uuid}/transactions
// Response: 200 OK with array of TransactionResponse
// Error: 404 Not Found if the portfolio does not exist
// Error: 500 Internal Server Error if retrieval fails
func (h *TransactionHandler) Transactions(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	transactions, err := h.transactionService.GetTransactions(portfolioID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	resp := make([]model.TransactionResponse, len(transactions))
	for i, t := range transactions {
		resp[i] = t.ToResponse()
	}

	response.RespondJSON(w, http.StatusOK, resp)
}

// GetTransaction handles GET requests to retrieve a single transaction of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/transactions/{transactionId}
// Response: 200 OK with TransactionResponse
// Error: 404 Not Found if the transaction does not exist in this portfolio
func (h *TransactionHandler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")
	transactionID := chi.URLParam(r, "transactionId")

	transaction, err := h.transactionService.GetTransaction(portfolioID, transactionID)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusOK, transaction.ToResponse())
}

// CreateTransaction handles POST requests to record a buy or sell in a portfolio.
//
// Endpoint: POST /api/portfolio/{uuid}/transactions
// Request Body: CreateTransactionRequest
// Response: 201 Created with TransactionResponse
// Error: 400 Bad Request if validation fails or request body is invalid
// Error: 404 Not Found if the portfolio does not exist
// Error: 409 Conflict if a SELL exceeds the quantity held
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")

	req, err := parseJSON[request.CreateTransactionRequest](r)
	if err != nil {
		response.RespondError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if err := validation.ValidateCreateTransaction(req); err != nil {
		respondValidationError(w, err)
		return
	}

	transaction, err := h.transactionService.CreateTransaction(r.Context(), portfolioID, req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusCreated, transaction.ToResponse())
}

// DeleteTransaction handles DELETE requests to remove a transaction from a portfolio.
//
// Endpoint: DELETE /api/portfolio/{uuid}/transactions/{transactionId}
// Response: 204 No Content on successful deletion
// Error: 404 Not Found if the transaction does not exist in this portfolio
// Error: 409 Conflict if removing a BUY would leave its position short
func (h *TransactionHandler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	portfolioID := chi.URLParam(r, "uuid")
	transactionID := chi.URLParam(r, "transactionId")

	if err := h.transactionService.DeleteTransaction(r.Context(), portfolioID, transactionID); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTransactions)
		return
	}

	response.RespondJSON(w, http.StatusNoContent, nil)
}
